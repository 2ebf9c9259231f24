package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// writeSummary prints a run summary to the command's out stream in the
// configured format.
func writeSummary(cmd *cobra.Command, v any) error {
	var (
		data []byte
		err  error
	)
	switch format := viper.GetString("output"); format {
	case "yaml", "":
		data, err = yaml.Marshal(v)
	case "json":
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unknown output format %q (want yaml or json)", format)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
