package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/keyloom/keyloom"
	"github.com/keyloom/keyloom/internal/presentation/tui"
	"github.com/keyloom/keyloom/pkg/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a key and score its entropy",
	Long: `Runs one grammar derivation with the requested alphabet modes and length,
then scores the resulting key with Shannon entropy.`,
	Run: func(cmd *cobra.Command, args []string) {
		modesFlag, _ := cmd.Flags().GetString("modes")
		length, _ := cmd.Flags().GetInt("length")
		jsonMode, _ := cmd.Flags().GetBool("json")
		pretty, _ := cmd.Flags().GetBool("pretty")
		showTree, _ := cmd.Flags().GetBool("tree")

		var modes []string
		for _, m := range strings.Split(modesFlag, ",") {
			if m = strings.TrimSpace(m); m != "" {
				modes = append(modes, m)
			}
		}
		if len(modes) == 0 {
			modes = []string{"alphanumeric"}
		}

		if !cmd.Flags().Changed("length") {
			length = domain.DefaultLength
		}

		gen := keyloom.New()

		result, err := gen.Generate(context.Background(), domain.GenerationRequest{
			Modes:  modes,
			Length: length,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		score, err := gen.Score(result.Key, result.AlphabetSize)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if jsonMode {
			out := struct {
				*domain.GenerationResult
				Entropy *domain.EntropyResult `json:"entropy"`
			}{result, score}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		// Default to the rich report when writing to a terminal.
		if !cmd.Flags().Changed("pretty") {
			pretty = term.IsTerminal(int(os.Stdout.Fd()))
		}

		if pretty {
			render := tui.NewRenderer()
			out, err := render(tui.Report(result, score))
			if err != nil {
				// Fall back to the raw markdown if styling fails.
				out = tui.Report(result, score)
			}
			fmt.Print(out)
		} else {
			fmt.Println(result.Key)
		}

		if showTree {
			fmt.Println(tui.TreeASCII(result.Tree))
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("modes", "m", "alphanumeric", "Comma-separated alphabet modes (numeric, alphabetic, alphanumeric, symbolic)")
	generateCmd.Flags().IntP("length", "l", domain.DefaultLength, "Key length in characters")
	generateCmd.Flags().Bool("json", false, "Emit the full result as JSON")
	generateCmd.Flags().Bool("pretty", false, "Render a styled report (default when stdout is a terminal)")
	generateCmd.Flags().Bool("tree", false, "Print the parse tree")

	// Make 'generate' the default if no command is provided.
	rootCmd.Run = generateCmd.Run
}
