package view

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Manu343726/isaview/pkg/isa/decode"
	"github.com/Manu343726/isaview/pkg/isa/model"
	"github.com/Manu343726/isaview/pkg/isa/parser"
	"github.com/Manu343726/isaview/pkg/isa/render"
	isaview "github.com/Manu343726/isaview/pkg/isa/view"
	"github.com/Manu343726/isaview/pkg/utils"
)

var architecture string
var specDir string
var interactive bool
var hideColumns []string
var width int
var noColor bool

// hideableColumns maps --hide flag names to model columns.
var hideableColumns = map[string]model.Column{
	"line-numbers": model.ColumnLineNumber,
	"pc-address":   model.ColumnPCAddress,
	"opcode":       model.ColumnOpCode,
	"operands":     model.ColumnOperands,
	"binary":       model.ColumnBinaryRepresentation,
}

// viewCmd represents the view command
var ViewCmd = &cobra.Command{
	Use:   "view <listing file>",
	Short: "View a shader disassembly listing",
	Long: `View parses a shader disassembly listing and renders it as an aligned,
color coded document. With --interactive the document opens in a terminal UI
with text search and branch/label navigation; otherwise it is printed to
stdout.

When --arch names a GPU architecture, instruction encodings are decoded
against its isa spec file and the decoded information is shown for the line
under the cursor.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filter, err := loadDocument(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading %q: %v\n", args[0], err)
			os.Exit(1)
		}

		if interactive {
			if err := isaview.NewViewer(filter).Run(); err != nil {
				fmt.Fprintf(os.Stderr, "viewer error: %v\n", err)
				os.Exit(2)
			}

			return
		}

		if noColor {
			color.NoColor = true
		}

		listing := render.NewListing(filter)
		listing.Width = listingWidth()

		if _, err := listing.WriteTo(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error rendering listing: %v\n", err)
			os.Exit(2)
		}
	},
}

// loadDocument parses the listing and loads it into a filtered model.
func loadDocument(path string) (*model.ColumnFilter, error) {
	blocks, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}

	decoder, err := buildDecoder()
	if err != nil {
		return nil, err
	}

	m := model.NewModel(decoder)
	m.Load(blocks)

	return model.NewColumnFilter(m, columnVisibility()), nil
}

// buildDecoder loads the isa spec decoder for --arch, nil when no
// architecture was requested.
func buildDecoder() (decode.Decoder, error) {
	name := architecture
	if name == "" {
		name = viper.GetString("arch")
	}

	if name == "" {
		return nil, nil
	}

	arch, err := decode.ParseArchitecture(name)
	if err != nil {
		return nil, err
	}

	dir := specDir
	if dir == "" {
		dir = viper.GetString("spec-dir")
	}

	return decode.NewManager(dir).Decoder(arch)
}

func columnVisibility() []bool {
	visibility := make([]bool, model.ColumnCount)
	for i := range visibility {
		visibility[i] = true
	}

	for _, name := range hideColumns {
		column, ok := hideableColumns[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown column %q; hideable columns: %v\n", name, strings.Join(hideableColumnNames(), ", "))
			os.Exit(1)
		}

		visibility[column] = false
	}

	return visibility
}

func hideableColumnNames() []string {
	names := utils.Keys(hideableColumns)
	sort.Strings(names)

	return names
}

// listingWidth resolves the listing width: the flag wins, then the terminal
// width, then unlimited.
func listingWidth() int {
	if width > 0 {
		return width
	}

	if terminalWidth, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return terminalWidth
	}

	return 0
}

func init() {
	ViewCmd.Flags().StringVarP(&architecture, "arch", "a", "", "GPU architecture to decode encodings against ("+strings.Join(decode.ArchitectureNames(), ", ")+")")
	ViewCmd.Flags().StringVar(&specDir, "spec-dir", "", "directory holding the isa spec yaml files")
	ViewCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "open the listing in the interactive terminal UI")
	ViewCmd.Flags().StringSliceVar(&hideColumns, "hide", nil, "columns to hide ("+strings.Join(hideableColumnNames(), ", ")+")")
	ViewCmd.Flags().IntVarP(&width, "width", "w", 0, "maximum listing width (default is the terminal width)")
	ViewCmd.Flags().BoolVar(&noColor, "no-color", false, "disable color output")
}
