package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/keyloom/keyloom/pkg/vault"
	"github.com/spf13/cobra"
)

var sealCmd = &cobra.Command{
	Use:   "seal <key>",
	Short: "Encrypt a generated key with a passphrase",
	Long: `Seals a key with AES-256-GCM under a passphrase-derived cipher and writes
the box as base64. The passphrase comes from --passphrase or the
KEYLOOM_PASSPHRASE environment variable.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		passphrase := resolvePassphrase(cmd)

		box, err := vault.Seal(passphrase, []byte(args[0]))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		out, _ := cmd.Flags().GetString("out")
		encoded := base64.StdEncoding.EncodeToString(box)
		if out == "" {
			fmt.Println(encoded)
			return
		}
		if err := os.WriteFile(out, []byte(encoded+"\n"), 0o600); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var openCmd = &cobra.Command{
	Use:   "open [file]",
	Short: "Decrypt a sealed key",
	Long: `Opens a base64 box produced by seal and prints the key. Reads from the
given file, or from stdin when no file is named.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		passphrase := resolvePassphrase(cmd)

		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		box, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			fmt.Printf("Error: invalid box encoding: %v\n", err)
			os.Exit(1)
		}

		key, err := vault.Open(passphrase, box)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(key))
	},
}

func resolvePassphrase(cmd *cobra.Command) string {
	passphrase, _ := cmd.Flags().GetString("passphrase")
	if passphrase == "" {
		passphrase = os.Getenv("KEYLOOM_PASSPHRASE")
	}
	if passphrase == "" {
		fmt.Println("Error: no passphrase given (use --passphrase or KEYLOOM_PASSPHRASE)")
		os.Exit(1)
	}
	return passphrase
}

func init() {
	rootCmd.AddCommand(sealCmd)
	rootCmd.AddCommand(openCmd)

	sealCmd.Flags().StringP("passphrase", "p", "", "Passphrase to derive the cipher key from")
	sealCmd.Flags().StringP("out", "o", "", "Write the box to a file instead of stdout")
	openCmd.Flags().StringP("passphrase", "p", "", "Passphrase to derive the cipher key from")
}
