// importctl parses bulk exam text offline, without a running server.
// It prints the parsed questions as JSON and can optionally write them
// to an Excel workbook for review.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"sorubank/internal/textimport"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "importctl",
		Short:         "Offline tooling for bulk question import",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newParseCmd())
	return root
}

func newParseCmd() *cobra.Command {
	var xlsxOut string

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse an exam text file and print the questions as JSON",
		Long:  "Parse an exam text file and print the questions as JSON. Pass - to read from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args[0])
			if err != nil {
				return err
			}

			questions, report := textimport.ParseWithReport(text)

			if xlsxOut != "" {
				if err := writeWorkbook(xlsxOut, questions); err != nil {
					return fmt.Errorf("write xlsx: %w", err)
				}
			}

			out := struct {
				Report    textimport.Report     `json:"report"`
				Questions []textimport.Question `json:"questions"`
			}{Report: report, Questions: questions}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "also write the parsed questions to this xlsx file")
	return cmd
}

func readInput(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input file: %w", err)
	}
	return string(b), nil
}

func writeWorkbook(path string, questions []textimport.Question) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	headers := []string{"id", "baglam", "onculler", "soru_koku", "secenek_a", "secenek_b", "secenek_c", "secenek_d", "secenek_e", "dogru_secenek", "aciklama"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for rowIdx, q := range questions {
		values := []interface{}{
			q.ID,
			q.ContextText,
			joinPremises(q.PremiseItems),
			q.QuestionStem,
		}
		for i := 0; i < 5; i++ {
			if i < len(q.Options) {
				values = append(values, q.Options[i])
			} else {
				values = append(values, "")
			}
		}
		values = append(values, optionLetter(q.CorrectOptionIndex, len(q.Options)), q.Explanation)

		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func joinPremises(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += " | "
		}
		out += item
	}
	return out
}

func optionLetter(index, optionCount int) string {
	if index < 0 || index >= optionCount {
		return ""
	}
	return string(rune('A' + index))
}
