// Package main contains the cli implementation of the tool. It uses cobra
// package for cli tool implementation.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cif"
)

type parseFlags struct {
	verbose bool
}

type validateFlags struct {
	dictionary string
	strict     bool
}

type roundtripFlags struct {
	outFile  string
	tagOrder string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "cifcheck",
		Short: "CIF/mmCIF parse, validate, and round-trip tool",
	}

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(roundtripCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseCmd() *cobra.Command {
	flags := &parseFlags{}
	cmd := &cobra.Command{
		Use:   "parse <file.cif>",
		Short: "Parse a CIF file and report its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runParse(args[0], flags)
		},
	}
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "List every category and its row count")
	return cmd
}

func runParse(path string, flags *parseFlags) error {
	file, err := cif.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	blocks := file.DataBlocks()
	fmt.Printf("%s: %d data block(s)\n", path, len(blocks))
	for _, b := range blocks {
		cats := b.Categories()
		fmt.Printf("  data_%s: %d categor(ies)\n", b.Name, len(cats))
		if !flags.verbose {
			continue
		}
		for _, c := range cats {
			fmt.Printf("    %s: %d row(s), %d item(s)\n", c.Name, c.NumRows(), c.Len())
		}
	}
	return printWarnings(file)
}

func validateCmd() *cobra.Command {
	flags := &validateFlags{}
	cmd := &cobra.Command{
		Use:   "validate <file.cif>",
		Short: "Validate a CIF file against a dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0], flags)
		},
	}
	cmd.Flags().StringVarP(&flags.dictionary, "dictionary", "d", "", "Path to a CIF dictionary file (required)")
	cmd.Flags().BoolVarP(&flags.strict, "strict", "s", false, "Reject unknown tags instead of warning about them")
	return cmd
}

// runValidate attaches a dictionary validator to a file that was parsed
// without one, then walks every already-populated cell against it
// directly (EnsureColumn only resolves columns at the moment a new one
// is created, so it has nothing to check on data that predates the
// validator). Mirrors spec.md's item-validator rule: a validator only
// ever judges a present, non-inapplicable value.
func runValidate(path string, flags *validateFlags) error {
	if flags.dictionary == "" {
		return fmt.Errorf("--dictionary is required")
	}

	validator, err := cif.LoadDictionaryFile(flags.dictionary, flags.strict)
	if err != nil {
		return fmt.Errorf("failed to load dictionary %s: %w", flags.dictionary, err)
	}

	file, err := cif.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	file.SetValidator(validator)

	problems, err := validateAgainst(file, validator, flags.strict)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, p := range problems {
		fmt.Fprintf(os.Stderr, "warning: %s\n", p)
	}
	if err := printWarnings(file); err != nil {
		return err
	}
	fmt.Printf("%s: %d problem(s) against %s %s\n", path, len(problems), validator.Name(), validator.Version())
	return nil
}

func validateAgainst(file *cif.File, validator *cif.Validator, strict bool) ([]string, error) {
	var problems []string
	for _, b := range file.DataBlocks() {
		for _, c := range b.Categories() {
			if !validator.KnownCategory(c.Name) {
				if strict {
					return nil, fmt.Errorf("category %s: unknown category", c.Name)
				}
				problems = append(problems, fmt.Sprintf("%s: unknown category", c.Name))
				continue
			}
			if err := validateCategory(c, validator, strict, &problems); err != nil {
				return nil, err
			}
		}
	}
	return problems, nil
}

func validateCategory(c *cif.Category, validator *cif.Validator, strict bool, problems *[]string) error {
	for _, col := range c.Columns() {
		mandatory, cv, known := validator.ColumnMeta(c.Name, col.Name)
		if !known {
			if strict {
				return fmt.Errorf("%s.%s: unknown tag", c.Name, col.Name)
			}
			*problems = append(*problems, fmt.Sprintf("%s.%s: unknown tag", c.Name, col.Name))
			continue
		}
		idx := c.IndexOf(col.Name)
		for _, row := range c.Rows() {
			val, present := row.Get(idx)
			if !present {
				if mandatory {
					*problems = append(*problems, fmt.Sprintf("%s.%s: mandatory value missing", c.Name, col.Name))
				}
				continue
			}
			if val == cif.Inapplicable || cv == nil {
				continue
			}
			if err := cv.Validate(val); err != nil {
				if strict {
					return err
				}
				*problems = append(*problems, err.Error())
			}
		}
	}
	if c.HasPrimaryKey() {
		for _, row := range c.Rows() {
			if _, dup := c.FindByRow(row); dup {
				*problems = append(*problems, fmt.Sprintf("%s: duplicate primary key", c.Name))
			}
		}
	}
	return nil
}

func roundtripCmd() *cobra.Command {
	flags := &roundtripFlags{}
	cmd := &cobra.Command{
		Use:   "roundtrip <file.cif>",
		Short: "Parse a CIF file and write it back out",
		Long: `Roundtrip parses a CIF file and serializes it again, verifying the
module can read the input it produces. Use --output to write the result
to a file instead of stdout, and --tag-order to control category order
in the output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRoundtrip(args[0], flags)
		},
	}
	cmd.Flags().StringVarP(&flags.outFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&flags.tagOrder, "tag-order", "", "Comma-separated list of tags controlling category order")
	return cmd
}

func runRoundtrip(path string, flags *roundtripFlags) error {
	file, err := cif.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var hint []string
	if flags.tagOrder != "" {
		hint = strings.Split(flags.tagOrder, ",")
	}

	if flags.outFile == "" {
		if err := cif.Save(os.Stdout, file, hint); err != nil {
			return fmt.Errorf("failed to serialize %s: %w", path, err)
		}
		return nil
	}

	if err := cif.SaveFile(flags.outFile, file, hint); err != nil {
		return fmt.Errorf("failed to write %s: %w", flags.outFile, err)
	}
	fmt.Printf("wrote %s\n", flags.outFile)
	return nil
}

func printWarnings(file *cif.File) error {
	warnings := file.Warnings()
	if len(warnings) == 0 {
		return nil
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return nil
}
