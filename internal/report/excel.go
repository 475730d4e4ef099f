package report

import (
	"github.com/xuri/excelize/v2"

	"gachasim/app"
	"gachasim/internal/errors"
)

// WriteWorkbook exports the run report as an XLSX workbook: one sheet for
// the per-threshold composition means, one for the significance tests.
func WriteWorkbook(report *app.RunReport, path string) error {
	f := excelize.NewFile()

	if err := writeSnapshotSheet(f, report); err != nil {
		return errors.ReportFailed(err)
	}
	if err := writeSignificanceSheet(f, report); err != nil {
		return errors.ReportFailed(err)
	}
	if err := f.SaveAs(path); err != nil {
		return errors.ReportFailed(err)
	}
	return nil
}

func writeSnapshotSheet(f *excelize.File, report *app.RunReport) error {
	sheet := "Snapshots"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	summary := report.Summary

	headers := []interface{}{"Threshold"}
	for _, item := range summary.Items {
		headers = append(headers, string(item))
	}
	headers = append(headers, "Total")
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}

	for i, label := range summary.Thresholds {
		counts := summary.MeanSnapshotCounts[label]
		row := []interface{}{string(label)}
		total := 0.0
		for _, item := range summary.Items {
			row = append(row, counts[item])
			total += counts[item]
		}
		row = append(row, total)
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSignificanceSheet(f *excelize.File, report *app.RunReport) error {
	sheet := "Significance"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []interface{}{"Threshold", "Item", "Samples", "Observed Mean", "Baseline", "t-statistic", "p-value", "Reject H0"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}

	for i, test := range report.Tests {
		row := []interface{}{string(test.Threshold), string(test.Item)}
		if test.Err != nil {
			row = append(row, 0, "insufficient data", report.Baseline, "", "", "")
		} else {
			r := test.Result
			row = append(row, r.SampleSize, r.ObservedMean, report.Baseline,
				r.TStatistic, r.PValue, r.Significant(report.Alpha))
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowIdx int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
