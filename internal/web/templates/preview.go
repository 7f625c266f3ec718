package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/JonMunkholm/analyzer/internal/core"
	"github.com/a-h/templ"
)

// PreviewTable renders the data preview: summary, then the first rows with
// each header tagged by column kind.
func PreviewTable(preview *core.Preview) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newPrinter(w)
		p.raw(`<section class="preview" id="preview">`)
		p.raw(`<h2>Data Preview: `)
		p.text(preview.Name)
		p.raw(`</h2>`)

		// SummaryHTML is rendered from our own markdown with raw HTML skipped.
		p.raw(`<div class="summary">`)
		p.component(ctx, templ.Raw(preview.SummaryHTML))
		p.raw(`</div>`)

		p.raw(`<div class="table-wrap"><table class="data-table"><thead><tr>`)
		for _, col := range preview.Columns {
			p.raw(`<th class="kind-`)
			p.text(col.Kind.String())
			p.raw(`" title="`)
			p.text(fmt.Sprintf("%s, %d distinct, %d missing", col.Kind, col.Distinct, col.Missing))
			p.raw(`">`)
			p.text(col.Name)
			p.raw(`</th>`)
		}
		p.raw(`</tr></thead><tbody>`)
		for _, row := range preview.Rows {
			p.raw(`<tr>`)
			for _, cell := range row {
				p.raw(`<td>`)
				p.text(cell)
				p.raw(`</td>`)
			}
			p.raw(`</tr>`)
		}
		p.raw(`</tbody></table></div>`)

		if preview.Truncated {
			p.raw(`<p class="muted">Showing the first `)
			p.text(fmt.Sprint(len(preview.Rows)))
			p.raw(` of `)
			p.text(fmt.Sprint(preview.Summary.TotalRows))
			p.raw(` rows.</p>`)
		}
		p.raw(`</section>`)
		return p.err
	})
}
