package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the available constellations",
	Args:  cobra.NoArgs,
	RunE:  listCatalog,
}

func listCatalog(cmd *cobra.Command, args []string) error {
	cfg, svc, err := setup(cmd)
	if err != nil {
		return err
	}
	lang := language(cfg)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "NAME", "STARS", "LINES")
	for _, c := range svc.Catalog().All() {
		t.Row(c.ID, c.Name(lang), strconv.Itoa(len(c.Stars)), strconv.Itoa(len(c.Edges)))
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return err
}
