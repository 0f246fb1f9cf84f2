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
	"github.com/spf13/cobra"
)

func getSettingsCmd(gs *globalState) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Calibrate and show the benchmarking settings",
		Long: `Calibrate and show the benchmarking settings.

The accuracy delay is the overhead of reading the clock, it is subtracted
from every measurement.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := getConsolidatedConfig(gs, getConfig(cmd.Flags()))
			if err != nil {
				return err
			}

			newBencher(gs, conf).PrintSettings()
			return nil
		},
	}

	settingsCmd.Flags().SortFlags = false
	settingsCmd.Flags().AddFlagSet(configFlagSet())

	return settingsCmd
}
