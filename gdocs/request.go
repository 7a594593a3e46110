package gdocs

import (
	"fmt"
	"strings"

	"github.com/fwojciec/clipdoc"
	"google.golang.org/api/docs/v1"
)

// Font family and size in points applied to code spans.
const (
	CodeFont     = "Courier New"
	CodeFontSize = 10
)

// Requests converts edits into Docs API batch update requests, keeping
// their order.
func Requests(edits []clipdoc.Edit) []*docs.Request {
	reqs := make([]*docs.Request, 0, len(edits))
	for _, e := range edits {
		switch e.Kind {
		case clipdoc.EditInsertText:
			reqs = append(reqs, &docs.Request{InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: int64(e.Index)},
				Text:     e.Text,
			}})
		case clipdoc.EditParagraphStyle:
			reqs = append(reqs, &docs.Request{UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
				Range:          docRange(e.Range),
				ParagraphStyle: &docs.ParagraphStyle{NamedStyleType: fmt.Sprintf("HEADING_%d", e.HeadingLevel)},
				Fields:         "namedStyleType",
			}})
		case clipdoc.EditBullets:
			reqs = append(reqs, &docs.Request{CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
				Range:        docRange(e.Range),
				BulletPreset: string(e.Bullet),
			}})
		case clipdoc.EditTextStyle:
			style, fields := textStyle(e.Style)
			if fields == "" {
				continue
			}
			reqs = append(reqs, &docs.Request{UpdateTextStyle: &docs.UpdateTextStyleRequest{
				Range:     docRange(e.Range),
				TextStyle: style,
				Fields:    fields,
			}})
		}
	}
	return reqs
}

func textStyle(s clipdoc.TextStyle) (*docs.TextStyle, string) {
	var ts docs.TextStyle
	var fields []string
	if s.Bold {
		ts.Bold = true
		fields = append(fields, "bold")
	}
	if s.Italic {
		ts.Italic = true
		fields = append(fields, "italic")
	}
	if s.Code {
		ts.WeightedFontFamily = &docs.WeightedFontFamily{FontFamily: CodeFont}
		ts.FontSize = &docs.Dimension{Magnitude: CodeFontSize, Unit: "PT"}
		fields = append(fields, "weightedFontFamily", "fontSize")
	}
	if s.Link != "" {
		ts.Link = &docs.Link{Url: s.Link}
		fields = append(fields, "link")
	}
	return &ts, strings.Join(fields, ",")
}

func docRange(r clipdoc.Range) *docs.Range {
	return &docs.Range{StartIndex: int64(r.Start), EndIndex: int64(r.End)}
}

// clearRequest deletes the body of a document whose content ends at end.
// The final newline of a document cannot be deleted. Returns nil for an
// empty document.
func clearRequest(end int64) *docs.Request {
	if end-1 <= clipdoc.DocumentStart {
		return nil
	}
	return &docs.Request{DeleteContentRange: &docs.DeleteContentRangeRequest{
		Range: &docs.Range{StartIndex: clipdoc.DocumentStart, EndIndex: end - 1},
	}}
}
