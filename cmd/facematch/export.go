package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export NAME DIR",
	Short: "Copy an album's images into DIR/NAME",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := manager.Export(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(dir)
		return nil
	},
}
