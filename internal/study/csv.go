package study

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// WriteRowsCSV writes the per-timestep study output. inputHeader names the
// input column ("price_per_mwh" for arbitrage, "load_mw" otherwise).
func WriteRowsCSV(path, inputHeader string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"timestamp",
		inputHeader,
		"action",
		"charge_mw",
		"discharge_mw",
		"power_mw",
		"energy_mwh",
		"soc",
		"grid_mw",
		"cum_cost",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			strconv.Itoa(r.Index),
			fmtTime(r.Timestamp),
			fmtFloat(r.Input),
			string(r.Action),
			fmtFloat(r.ChargeMW),
			fmtFloat(r.DischargeMW),
			fmtFloat(r.NetPowerMW),
			fmtFloat(r.EnergyMWh),
			fmtFloat(r.SOC),
			fmtFloat(r.GridMW),
			fmtFloat(r.CumCost),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
