package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cvtailor/internal/latex"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the available CV templates",
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	store := latex.NewTemplateStore(cfg)
	templates := store.List()
	if len(templates) == 0 {
		fmt.Printf("No templates found in %s\n", cfg.Templates.Dir)
		return nil
	}

	for _, t := range templates {
		if t.Default {
			fmt.Printf("%s (default)\n", t.Name)
		} else {
			fmt.Println(t.Name)
		}
	}
	return nil
}
