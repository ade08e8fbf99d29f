package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/speedui/gridkit/pkg/errors"
	"github.com/speedui/gridkit/pkg/snapshot"
)

// queryCommand creates the query command for looking up elements in a
// computed layout.
func (c *CLI) queryCommand() *cobra.Command {
	var (
		rectStr  string
		indexStr string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "query [layout.json]",
		Short: "Look up elements in a computed layout",
		Long: `Look up elements in a computed layout.

With --rect, every item whose frame intersects the rectangle is listed,
each followed by its bands. With --index, the single item at that index is
listed. Without either flag the visible viewport stored in the layout is
queried.`,
		Example: `  gridkit query photos.layout.json --rect 0,0,320,480
  gridkit query photos.layout.json --index 1,3 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rectStr != "" && indexStr != "" {
				return errors.New(errors.ErrCodeInvalidInput, "--rect and --index are mutually exclusive")
			}
			l, err := snapshot.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load layout %s: %w", args[0], err)
			}

			elems, err := queryLayout(l, rectStr, indexStr)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("queried layout", "matches", len(elems))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(elems)
			}
			if len(elems) == 0 {
				printInfo("No elements match")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), elementTable(elems))
			printDetail("%s matches", StyleNumber.Render(strconv.Itoa(len(elems))))
			return nil
		},
	}

	cmd.Flags().StringVar(&rectStr, "rect", "", "query rectangle as x,y,w,h")
	cmd.Flags().StringVar(&indexStr, "index", "", "item index as section,item")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print matches as JSON")

	return cmd
}

// queryLayout runs an index lookup when index is set and a rectangle
// query otherwise. An empty rect queries the stored viewport.
func queryLayout(l *snapshot.Layout, rect, index string) ([]snapshot.Element, error) {
	if index != "" {
		idx, err := parseIndex(index)
		if err != nil {
			return nil, err
		}
		e, ok := l.ItemAt(idx)
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "no item at %s", idx)
		}
		return []snapshot.Element{e}, nil
	}

	r := l.Viewport.ToGrid()
	if rect != "" {
		var err error
		if r, err = parseRect(rect); err != nil {
			return nil, err
		}
	}
	return l.Intersecting(r), nil
}

func elementTable(elems []snapshot.Element) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	bandStyle := cellStyle.Foreground(colorDim)

	rows := make([][]string, 0, len(elems))
	for _, e := range elems {
		rows = append(rows, []string{
			e.Index().String(),
			e.Category,
			e.Kind,
			e.Label,
			strconv.FormatFloat(e.X, 'g', -1, 64) + "," + strconv.FormatFloat(e.Y, 'g', -1, 64),
			fmt.Sprintf("%gx%g", e.Width, e.Height),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Index", "Category", "Kind", "Label", "Origin", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= 0 && row < len(elems) && !elems[row].IsItem() {
				return bandStyle
			}
			return cellStyle
		})
	return t.Render()
}
