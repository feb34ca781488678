package decode

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Manu343726/isaview/pkg/isa/decode"
)

var architecture string
var specDir string

// decodeCmd represents the decode command
var DecodeCmd = &cobra.Command{
	Use:   "decode <encoding>",
	Short: "Decode one instruction encoding",
	Long: `Decode matches a hex instruction encoding against an architecture's isa spec
file and prints the instruction it identifies: its name, functional group and
description.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arch, err := decode.ParseArchitecture(architecture)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v; known architectures: %v\n", err, strings.Join(decode.ArchitectureNames(), ", "))
			os.Exit(1)
		}

		dir := specDir
		if dir == "" {
			dir = viper.GetString("spec-dir")
		}

		decoder, err := decode.NewManager(dir).Decoder(arch)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading isa spec: %v\n", err)
			os.Exit(1)
		}

		info, err := decoder.Decode(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error decoding %q: %v\n", args[0], err)
			os.Exit(2)
		}

		fmt.Printf("%v (%v)\n", info.Name, info.FunctionalGroup)

		if info.Description != "" {
			fmt.Println(info.Description)
		}
	},
}

func init() {
	DecodeCmd.Flags().StringVarP(&architecture, "arch", "a", "", "GPU architecture whose isa spec identifies the encoding")
	DecodeCmd.Flags().StringVar(&specDir, "spec-dir", "", "directory holding the isa spec yaml files")
	DecodeCmd.MarkFlagRequired("arch")
}
