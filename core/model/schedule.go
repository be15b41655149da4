package model

// ScheduleMetrics summarizes a schedule relative to a baseline. The
// figures are computed against the baseline objectives, never constants.
type ScheduleMetrics struct {
	WaitReductionPct   float64 `json:"wait_reduction_pct"`
	UtilizationGainPct float64 `json:"utilization_gain_pct"`
	CostSavingsPct     float64 `json:"cost_savings_pct"`
}

// ScheduleResult is the externally consumable schedule for one route.
type ScheduleResult struct {
	RouteID    string          `json:"route_id"`
	Departures []string        `json:"departures"` // "HH:MM" labels, ascending
	Objectives Objectives      `json:"objectives"`
	Metrics    ScheduleMetrics `json:"metrics"`
}

// RelativeMetrics computes the improvement of cand over base. A zero
// baseline component yields a zero percentage rather than a division by
// zero; utilization is compared on the real ratio, not its inverted
// objective form.
func RelativeMetrics(cand, base Objectives) ScheduleMetrics {
	var m ScheduleMetrics
	if base[ObjPassengerWait] > 0 {
		m.WaitReductionPct = (base[ObjPassengerWait] - cand[ObjPassengerWait]) / base[ObjPassengerWait] * 100
	}
	baseUtil := 1 - base[ObjUtilization]
	candUtil := 1 - cand[ObjUtilization]
	if baseUtil > 0 {
		m.UtilizationGainPct = (candUtil - baseUtil) / baseUtil * 100
	}
	if base[ObjOperatorCost] > 0 {
		m.CostSavingsPct = (base[ObjOperatorCost] - cand[ObjOperatorCost]) / base[ObjOperatorCost] * 100
	}
	return m
}
