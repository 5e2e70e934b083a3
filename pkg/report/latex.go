package report

import (
	"fmt"
	"io"
)

// WriteLaTeX serializes the result collection as typeset tables for
// document-preparation tooling. Times are rounded to 3 decimal places in
// milliseconds, sizes are integer bytes. The tables project exactly the same
// results the JSON output carries.
func (r *Report) WriteLaTeX(w io.Writer) error {
	fmt.Fprintf(w, "%% Benchmark Results - Generated %s\n\n",
		r.Meta.FinishedAt.Format("2006-01-02 15:04"))

	if err := r.writeCombinedTable(w); err != nil {
		return err
	}
	return r.writeKEMTable(w)
}

// writeCombinedTable emits one row per scenario, organized by dataset then
// configuration (the canonical result order).
func (r *Report) writeCombinedTable(w io.Writer) error {
	fmt.Fprintln(w, `\begin{table}[h]`)
	fmt.Fprintln(w, `\centering`)
	fmt.Fprintln(w, `\caption{Combined PQC + Compression Performance}`)
	fmt.Fprintln(w, `\begin{tabular}{llcrrrrc}`)
	fmt.Fprintln(w, `\hline`)
	fmt.Fprintln(w, `Dataset & Codec & KEM & Orig.\ (B) & Comp.\ (B) & Total (B) & Time (ms) & Savings \\`)
	fmt.Fprintln(w, `\hline`)

	for _, res := range r.Results {
		if !res.Succeeded {
			continue
		}
		fmt.Fprintf(w, "%s & %s & %s & %d & %d & %d & %.3f & %.1f\\%% \\\\\n",
			escape(res.Dataset), escape(res.Codec), escape(res.KEM),
			res.OriginalSize, res.CompressedSize, res.TotalTransmittedSize,
			durationMs(res.ProcessingTime), res.SavingsPercent)
	}

	fmt.Fprintln(w, `\hline`)
	fmt.Fprintln(w, `\end{tabular}`)
	if _, err := fmt.Fprintln(w, `\end{table}`); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// writeKEMTable emits the per-parameter-set overhead and timing table.
func (r *Report) writeKEMTable(w io.Writer) error {
	fmt.Fprintln(w, `\begin{table}[h]`)
	fmt.Fprintln(w, `\centering`)
	fmt.Fprintln(w, `\caption{Post-Quantum KEM Overhead}`)
	fmt.Fprintln(w, `\begin{tabular}{lrrrc}`)
	fmt.Fprintln(w, `\hline`)
	fmt.Fprintln(w, `KEM & CT (B) & Encap (ms) & Decap (ms) & Mode \\`)
	fmt.Fprintln(w, `\hline`)

	seen := make(map[string]bool)
	for _, res := range r.Results {
		if !res.Succeeded || seen[res.KEM] {
			continue
		}
		seen[res.KEM] = true
		mode := "real"
		if res.Simulated {
			mode = "simulated"
		}
		fmt.Fprintf(w, "%s & %d & %.3f & %.3f & %s \\\\\n",
			escape(res.KEM), res.OverheadSize,
			durationMs(res.EncapsulateTime), durationMs(res.DecapsulateTime), mode)
	}

	fmt.Fprintln(w, `\hline`)
	fmt.Fprintln(w, `\end{tabular}`)
	_, err := fmt.Fprintln(w, `\end{table}`)
	return err
}

// escape guards the characters that would break a LaTeX table cell.
func escape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '_', '%', '&', '#', '$':
			out = append(out, '\\', s[i])
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
