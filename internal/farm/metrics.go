package farm

import "expvar"

var (
	metricCyclesTotal       = expvar.NewInt("farm_cycles_total")
	metricCycleErrorsTotal  = expvar.NewInt("farm_cycle_errors_total")
	metricTicksSkippedTotal = expvar.NewInt("farm_ticks_skipped_total")
	metricPacksBoughtTotal  = expvar.NewInt("farm_packs_bought_total")
	metricPacksOpenedTotal  = expvar.NewInt("farm_packs_opened_total")
	metricUnitsSpentTotal   = expvar.NewInt("farm_fertilizer_spent_total")
)
