// cmd/evaluator/registry.go
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shub15/the-unfair-advantage/pkg/registry"

	"github.com/spf13/cobra"
)

var registryCommand = &cobra.Command{
	Use:   "registry",
	Short: "Inspect and maintain the activity registry",
}

var registryPath string

func init() {
	registryCommand.PersistentFlags().StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")

	registryCommand.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the registry file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed (%d activities).\n", len(reg.Activities))
			return nil
		},
	})

	registryCommand.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered activities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TASK TYPE\tCATEGORY\tSTATUS\tTIMEOUT\tRETRIES")
			for _, a := range reg.Activities {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", a.TaskType, a.Category, a.ImplementationStatus, a.Timeout, a.Retries)
			}
			return w.Flush()
		},
	})

	var status string
	setStatus := &cobra.Command{
		Use:   "set-status <task-type>",
		Short: "Update the implementation status of an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			activity := reg.Find(args[0])
			if activity == nil {
				return fmt.Errorf("activity %q not found", args[0])
			}
			activity.ImplementationStatus = status
			if err := reg.Validate(); err != nil {
				return err
			}
			if err := reg.Save(registryPath); err != nil {
				return fmt.Errorf("failed to save registry: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s to %s\n", args[0], status)
			return nil
		},
	}
	setStatus.Flags().StringVar(&status, "status", registry.StatusCompleted, "planned, in-progress, completed or verified")
	registryCommand.AddCommand(setStatus)

	rootCmd.AddCommand(registryCommand)
}
