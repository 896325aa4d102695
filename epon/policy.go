package epon

// ReportInfo is the subset of a REPORT message a GrantPolicy needs to size
// the following GATE.
type ReportInfo struct {
	Length int // queue length reported by the ONU, bytes
}

// PolicyState carries the per-LLID history a policy may need across
// successive grants. Only ElasticPolicy reads it today, but every policy
// receives it uniformly so a future policy can start tracking history
// without changing the GrantPolicy signature.
type PolicyState struct {
	LastGrant []int // bytes granted to each LLID on its most recent GATE
}

// NewPolicyState allocates a PolicyState for n LLIDs.
func NewPolicyState(n int) *PolicyState {
	return &PolicyState{LastGrant: make([]int, n)}
}

// GrantPolicy computes the length, in bytes, granted to llid in response to
// report, given the PON's parameters and the running per-LLID grant history.
// olt.h hard-codes exactly one of these six formulas active at a time (the
// other five commented out); this interface promotes all six to
// first-class, test-selectable implementations.
type GrantPolicy interface {
	GrantLength(llid int, report ReportInfo, params *Params, state *PolicyState) int
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// FixedPolicy always grants the maximum slot, regardless of the reported
// queue length.
type FixedPolicy struct{}

func (FixedPolicy) GrantLength(_ int, _ ReportInfo, params *Params, _ *PolicyState) int {
	return params.MaxSlot
}

// GatedPolicy grants exactly the reported queue length plus the REPORT
// message's own overhead, uncapped.
type GatedPolicy struct{}

func (GatedPolicy) GrantLength(_ int, report ReportInfo, params *Params, _ *PolicyState) int {
	return report.Length + params.Overhead(params.MPCPPacketSize)
}

// LimitedPolicy grants the reported queue length plus REPORT overhead,
// capped at MaxSlot. This is the only policy olt.h leaves active by default.
type LimitedPolicy struct{}

func (LimitedPolicy) GrantLength(_ int, report ReportInfo, params *Params, _ *PolicyState) int {
	return minInt(report.Length+params.Overhead(params.MPCPPacketSize), params.MaxSlot)
}

// ConstantCreditPolicy grants the reported length plus REPORT overhead plus
// a fixed credit (one maximum-size frame plus its per-frame overhead), capped at
// MaxSlot — letting an ONU with an empty queue still send one frame that
// arrived just after it reported.
type ConstantCreditPolicy struct{}

func (ConstantCreditPolicy) GrantLength(_ int, report ReportInfo, params *Params, _ *PolicyState) int {
	credit := report.Length + params.Overhead(params.MPCPPacketSize) + params.Overhead(params.MaxPacketSize)
	return minInt(credit, params.MaxSlot)
}

// LinearCreditPolicy grants a fixed multiple of the reported length plus
// REPORT overhead, capped at MaxSlot.
type LinearCreditPolicy struct {
	Factor float64 // defaults to 1.2 when zero
}

func (p LinearCreditPolicy) GrantLength(_ int, report ReportInfo, params *Params, _ *PolicyState) int {
	factor := p.Factor
	if factor == 0 {
		factor = 1.2
	}
	grant := int(factor*float64(report.Length)) + params.Overhead(params.MPCPPacketSize)
	return minInt(grant, params.MaxSlot)
}

// ElasticPolicy grants the reported length plus REPORT overhead, capped by
// the upstream capacity left over after every LLID's most recent grant —
// LLIDs that most recently took a large share of NumLLID*MaxSlot leave less
// for everyone else until their own grant history ages out.
type ElasticPolicy struct{}

func (ElasticPolicy) GrantLength(llid int, report ReportInfo, params *Params, state *PolicyState) int {
	var totalGranted int
	for _, g := range state.LastGrant {
		totalGranted += g
	}
	cap := maxInt(params.NumLLID*params.MaxSlot-totalGranted, 0)
	grant := minInt(report.Length+params.Overhead(params.MPCPPacketSize), cap)
	state.LastGrant[llid] = grant
	return grant
}
