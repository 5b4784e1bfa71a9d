package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/remiblancher/mceliece/internal/cli"
	"github.com/remiblancher/mceliece/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Parameter profile commands",
	Long: `Commands for listing and inspecting McEliece parameter profiles.

Builtin profiles are grouped by category:
  raw/   - raw cipher
  cca2/  - Fujisaki, Pointcheval and Kobara-Imai conversions
  test/  - small insecure parameters for tests`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List builtin profiles",
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name|file>",
	Short: "Show a profile as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var (
	profileShowDetails bool
	profileShowOutput  string
)

func init() {
	profileShowCmd.Flags().BoolVar(&profileShowDetails, "details", false, "Also print derived code sizes")
	profileShowCmd.Flags().StringVarP(&profileShowOutput, "out", "o", "", "Write the profile YAML to a file for editing")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
}

func runProfileList(cmd *cobra.Command, args []string) error {
	all, err := profile.Builtin()
	if err != nil {
		return err
	}
	names, err := profile.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-24s %-22s %s\n", "NAME", "ALGORITHM", "PARAMETERS")
	for _, name := range names {
		p := all[name]
		fmt.Fprintf(out, "%-24s %-22s m=%d t=%d\n", name, p.Algorithm, p.M, p.T)
	}
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	p, err := profile.Load(args[0])
	if err != nil {
		return err
	}
	if profileShowOutput != "" {
		if err := profile.SaveFile(p, profileShowOutput); err != nil {
			return err
		}
		cli.Success(cmd.OutOrStdout(), "Profile written to %s", profileShowOutput)
		return nil
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to render profile: %w", err)
	}
	out := cmd.OutOrStdout()
	if _, err := out.Write(data); err != nil {
		return err
	}

	if profileShowDetails {
		params, err := p.Parameters()
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		cli.Field(out, "Code", params)
		cli.Field(out, "Field polynomial", fmt.Sprintf("%#x", params.Poly()))
		if p.Algorithm.IsCCA2() {
			cli.Field(out, "Digest", params.DigestName())
		} else {
			cli.Field(out, "Max plaintext", fmt.Sprintf("%d bytes", (params.K()-1)/8))
		}
		cli.Field(out, "Ciphertext", fmt.Sprintf("%d bytes (raw part)", (params.N()+7)/8))
	}
	return nil
}
