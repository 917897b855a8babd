package catalog

import "rdhub/pkg/domain"

func target(v float64) *float64 { return &v }

// definitions is the full static catalog. Aliases cover both the raw WHO
// column names and the display labels the upstream files use for the same
// series; codes themselves and canonical labels also resolve.
var definitions = []Definition{
	// --- Mortality (UNICEF/UNIGME definitions) -------------------------------
	{
		Code: "mmr", Label: "Maternal mortality ratio",
		Unit: "deaths per 100,000 live births", Family: domain.FamilyMortality,
		Polarity: domain.LowerIsBetter, Target2030: target(70),
		Aliases: []string{"MMR", "Maternal Mortality Ratio", "maternal_mortality_ratio"},
	},
	{
		Code: "u5mr", Label: "Under-five mortality rate",
		Unit: "deaths per 1,000 live births", Family: domain.FamilyMortality,
		Polarity: domain.LowerIsBetter, Target2030: target(25),
		Aliases: []string{"U5MR", "Under-5 mortality rate", "Under five mortality rate"},
	},
	{
		Code: "imr", Label: "Infant mortality rate",
		Unit: "deaths per 1,000 live births", Family: domain.FamilyMortality,
		Polarity: domain.LowerIsBetter,
		Aliases:  []string{"IMR"},
	},
	{
		Code: "nmr", Label: "Neonatal mortality rate",
		Unit: "deaths per 1,000 live births", Family: domain.FamilyMortality,
		Polarity: domain.LowerIsBetter, Target2030: target(12),
		Aliases: []string{"NMR"},
	},
	{
		Code: "sbr", Label: "Stillbirth rate",
		Unit: "stillbirths per 1,000 total births", Family: domain.FamilyMortality,
		Polarity: domain.LowerIsBetter, Target2030: target(12),
		Aliases: []string{"SBR", "Stillbirth Rate"},
	},

	// --- TB burden estimates (Global TB Programme) ---------------------------
	{
		Code: "tb_inc_100k", Label: "TB incidence",
		Unit: "cases per 100,000 population", Family: domain.FamilyTBBurden,
		Polarity: domain.LowerIsBetter,
		Aliases:  []string{"e_inc_100k", "TB Incidence (per 100k)"},
	},
	{
		Code: "tb_mort_100k", Label: "TB mortality",
		Unit: "deaths per 100,000 population", Family: domain.FamilyTBBurden,
		Polarity: domain.LowerIsBetter,
		Aliases:  []string{"e_mort_100k", "TB Mortality (per 100k)"},
	},
	{
		Code: "tbhiv_inc_100k", Label: "TB/HIV incidence",
		Unit: "cases per 100,000 population", Family: domain.FamilyTBBurden,
		Polarity: domain.LowerIsBetter,
		Aliases:  []string{"e_inc_tbhiv_100k", "TB/HIV Incidence (per 100k)"},
	},
	{
		Code: "tbhiv_mort_100k", Label: "TB/HIV mortality",
		Unit: "deaths per 100,000 population", Family: domain.FamilyTBBurden,
		Polarity: domain.LowerIsBetter,
		Aliases:  []string{"e_mort_tbhiv_100k", "TB/HIV Mortality (per 100k)"},
	},
	{
		Code: "cdr_pct", Label: "Case detection rate",
		Unit: "percent", Family: domain.FamilyTBBurden,
		Polarity: domain.HigherIsBetter, Target2030: target(90),
		Aliases: []string{"c_cdr", "Case Detection Rate (%)"},
	},
	{
		Code: "mdr_rr_inc", Label: "MDR/RR-TB incidence",
		Unit: "cases", Family: domain.FamilyTBBurden,
		Polarity: domain.LowerIsBetter,
		Aliases:  []string{"e_inc_rr_num", "MDR/RR-TB Incidence"},
	},

	// --- TB case notifications ----------------------------------------------
	{
		Code: "c_newinc", Label: "New and relapse cases notified",
		Unit: "cases", Family: domain.FamilyTBNotifications,
		Polarity: domain.HigherIsBetter,
		Aliases:  []string{"TB Notifications", "New and relapse notifications"},
	},
	{
		Code: "new_labconf", Label: "New pulmonary, bacteriologically confirmed",
		Unit: "cases", Family: domain.FamilyTBNotifications,
		Polarity: domain.HigherIsBetter,
		Aliases:  []string{"Pulmonary bacteriologically confirmed"},
	},
	{
		Code: "new_clindx", Label: "New pulmonary, clinically diagnosed",
		Unit: "cases", Family: domain.FamilyTBNotifications,
		Polarity: domain.HigherIsBetter,
		Aliases:  []string{"Pulmonary clinically diagnosed"},
	},
	{
		Code: "new_ep", Label: "New extrapulmonary",
		Unit: "cases", Family: domain.FamilyTBNotifications,
		Polarity: domain.HigherIsBetter,
		Aliases:  []string{"Extrapulmonary"},
	},
	{
		Code: "ret_rel", Label: "Relapse cases",
		Unit: "cases", Family: domain.FamilyTBNotifications,
		Polarity: domain.HigherIsBetter,
		Aliases:  []string{"Relapse", "Retreatment - relapse"},
	},

	// --- TB treatment outcomes ----------------------------------------------
	{
		Code: "tsr_pct", Label: "Treatment success rate",
		Unit: "percent", Family: domain.FamilyTBOutcomes,
		Polarity: domain.HigherIsBetter, Target2030: target(90),
		Aliases: []string{"c_new_tsr", "Treatment Success Rate (%)"},
	},
	{
		Code: "died_pct", Label: "Died during treatment",
		Unit: "percent", Family: domain.FamilyTBOutcomes,
		Polarity: domain.LowerIsBetter,
		Aliases:  []string{"Died (%)"},
	},
	{
		Code: "failed_pct", Label: "Treatment failed",
		Unit: "percent", Family: domain.FamilyTBOutcomes,
		Polarity: domain.LowerIsBetter,
		Aliases:  []string{"Failed (%)"},
	},
	{
		Code: "ltfu_pct", Label: "Lost to follow-up",
		Unit: "percent", Family: domain.FamilyTBOutcomes,
		Polarity: domain.LowerIsBetter,
		Aliases:  []string{"Lost to follow-up (%)", "LTFU (%)"},
	},
	{
		Code: "cohort_size", Label: "Treatment cohort size",
		Unit: "cases", Family: domain.FamilyTBOutcomes,
		Polarity: domain.HigherIsBetter,
		Aliases:  []string{"Cohort", "Treatment cohort"},
	},
}
