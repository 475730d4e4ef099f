package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gachasim/app"
	"gachasim/domain/machine"
)

// RenderText writes the two-part run report: average machine composition
// at each fullness snapshot, then the significance analysis for each
// configured test. Pure function of the report; performs no other I/O.
func RenderText(w io.Writer, report *app.RunReport) error {
	divider := strings.Repeat("=", 70)
	if _, err := fmt.Fprintf(w, "%s\n    GACHAPON DEPLETION ANALYSIS (%d LIFETIMES)\n%s\n",
		divider, report.Summary.Runs, divider); err != nil {
		return err
	}
	if err := renderSnapshots(w, report); err != nil {
		return err
	}
	if err := renderSignificance(w, report); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n--- END OF REPORT ---\n%s\n", divider, divider)
	return err
}

func renderSnapshots(w io.Writer, report *app.RunReport) error {
	if _, err := fmt.Fprintf(w, "\n--- Part 1: Machine State at Depletion Snapshots ---\n"); err != nil {
		return err
	}
	summary := report.Summary
	for _, label := range summary.Thresholds {
		counts := summary.MeanSnapshotCounts[label]
		total := 0.0
		for _, item := range summary.Items {
			total += counts[item]
		}
		if _, err := fmt.Fprintf(w, "\n  When machine is ~%s FULL (avg. %.2f capsules):\n", label, total); err != nil {
			return err
		}
		for _, item := range sortByCount(summary.Items, counts) {
			rate := 0.0
			if total > 0 {
				rate = counts[item] / total
			}
			if _, err := fmt.Fprintf(w, "    - %-18s: %6.2f avg. units | Rate: %.2f%%\n",
				item, counts[item], rate*100); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderSignificance(w io.Writer, report *app.RunReport) error {
	if _, err := fmt.Fprintf(w, "\n\n--- Part 2: Statistical Significance Analysis ---\n"); err != nil {
		return err
	}
	if len(report.Tests) == 0 {
		_, err := fmt.Fprintf(w, "\n  No significance tests configured.\n")
		return err
	}
	for _, test := range report.Tests {
		if _, err := fmt.Fprintf(w, "\n  Hypothesis Test for %q at %s Fullness:\n", test.Item, test.Threshold); err != nil {
			return err
		}
		if test.Err != nil {
			if _, err := fmt.Fprintf(w, "    Not enough data to perform significance test.\n"); err != nil {
				return err
			}
			continue
		}
		r := test.Result
		lines := []string{
			fmt.Sprintf("    - Null Hypothesis (H0): the true average rate equals the baseline of %.2f%%.", report.Baseline*100),
			fmt.Sprintf("    - Observed Mean Rate: %.4f%%", r.ObservedMean*100),
			fmt.Sprintf("    - t-statistic: %.4f", r.TStatistic),
			fmt.Sprintf("    - p-value: %.4g", r.PValue),
		}
		if r.Significant(report.Alpha) {
			lines = append(lines, fmt.Sprintf("    - Conclusion: since p < %g, we reject the null hypothesis.", report.Alpha))
		} else {
			lines = append(lines,
				fmt.Sprintf("    - Conclusion: since p >= %g, we fail to reject the null hypothesis.", report.Alpha),
				"      The difference from the baseline is NOT statistically significant.")
		}
		if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")); err != nil {
			return err
		}
	}
	return nil
}

// sortByCount orders items by mean count descending, name ascending on ties.
func sortByCount(items []machine.Item, counts map[machine.Item]float64) []machine.Item {
	sorted := make([]machine.Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if counts[sorted[i]] != counts[sorted[j]] {
			return counts[sorted[i]] > counts[sorted[j]]
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}
