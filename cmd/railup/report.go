package railup

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/railup/pkg/types"
	"github.com/arthur-debert/railup/pkg/ui/styles"
)

// renderRecords prints the analyze report as a table
func renderRecords(w io.Writer, records []types.MatchRecord, targetVersion string) {
	if len(records) == 0 {
		fmt.Fprintln(w, styles.Get("Success").Render("No deprecated constructs found."))
		return
	}

	if targetVersion != "" {
		fmt.Fprintln(w, styles.Get("Header").Render(
			fmt.Sprintf("Matches for target Rails %s:", targetVersion)))
	}

	data := pterm.TableData{{"FILE", "MESSAGE"}}
	for _, rec := range records {
		data = append(data, []string{rec.File, rec.Message})
	}
	_ = pterm.DefaultTable.
		WithHasHeader().
		WithData(data).
		WithWriter(w).
		Render()

	fmt.Fprintln(w, styles.Get("Muted").Render(
		fmt.Sprintf("%d match(es) found.", len(records))))
}

// renderResult prints the upgrade outcome: changed files and the
// records that remain for manual review.
func renderResult(w io.Writer, result *types.UpgradeResult, opts types.Options) {
	if opts.DryRun {
		renderRecords(w, result.Records, opts.TargetVersion)
		fmt.Fprintln(w, styles.Get("Warning").Render("Dry run: no files were changed."))
		return
	}

	if len(result.ChangedFiles) == 0 {
		fmt.Fprintln(w, styles.Get("Success").Render("Nothing to change."))
	} else {
		fmt.Fprintln(w, styles.Get("Header").Render(
			fmt.Sprintf("Rewrote %d file(s):", len(result.ChangedFiles))))
		for _, file := range result.ChangedFiles {
			fmt.Fprintf(w, "  %s\n", file)
		}
	}

	if len(result.Unresolved) > 0 {
		fmt.Fprintln(w, styles.Get("Warning").Render(
			fmt.Sprintf("%d match(es) left for manual review:", len(result.Unresolved))))
		for _, rec := range result.Unresolved {
			fmt.Fprintf(w, "  %s: %s\n", rec.File, rec.Message)
		}
	}
}
