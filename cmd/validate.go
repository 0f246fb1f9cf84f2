/*
 *
 * k6 - a next-generation load testing tool
 * Copyright (C) 2016 Load Impact
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/liuxd6825/k6bench/errext"
	"github.com/liuxd6825/k6bench/errext/exitcodes"
	"github.com/liuxd6825/k6bench/output/tsv"
)

func validateResults(gs *globalState, filename string) ([]tsv.Record, error) {
	if !filepath.IsAbs(filename) {
		pwd, err := gs.getwd()
		if err != nil {
			return nil, err
		}
		filename = filepath.Join(pwd, filename)
	}

	f, err := tsv.Open(gs.fs, filename)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	records, err := tsv.ReadRecords(f)
	if err != nil {
		return nil, errext.WithHint(
			fmt.Errorf("%s is not a valid results file: %w", filename, err),
			"results files are written by `k6bench run --out`",
		)
	}
	return records, nil
}

func getValidateCmd(gs *globalState) *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check and list a results file",
		Long: `Check and list a results file.

The file must start with the results head marker. Gzipped files are detected
automatically.`,
		Args: exactArgsWithMsg(1, "arg should be the path to a results file"),
		RunE: func(_ *cobra.Command, args []string) error {
			records, err := validateResults(gs, args[0])
			if err != nil {
				return errext.WithExitCodeIfNone(err, exitcodes.InvalidResultFile)
			}

			gs.logger.Debugf("Found %d records in %s", len(records), args[0])
			for _, rec := range records {
				stddev := "n/a"
				if rec.StdDev.Valid {
					stddev = strconv.FormatFloat(rec.StdDev.Float64, 'f', 2, 64) + "ns"
				}
				printToStdout(gs, fmt.Sprintf("%s\t%s\t%s\n", rec.Name, rec.Mean, stddev))
			}
			return nil
		},
	}

	return validateCmd
}
