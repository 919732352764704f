package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print pipeline statistics from the persisted state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		out, err := json.MarshalIndent(map[string]any{
			"records": a.store.Statistics(),
			"quota":   a.quota.Statistics(),
		}, "", "  ")
		if err != nil {
			return err
		}

		fmt.Println(string(out))
		return nil
	},
}
