package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/starford/rasoi/internal/models"
)

func renderRecipeTable(recipes []models.Recipe) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"#", "Name", "Language", "Region", "Difficulty", "Total Min", "Servings", "Added"})

	for i, r := range recipes {
		tw.AppendRow(table.Row{
			i + 1,
			r.Name,
			r.Language,
			r.Region,
			r.Difficulty,
			strconv.Itoa(r.TotalTimeMinutes),
			strconv.Itoa(r.Servings),
			r.DateAdded,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 7, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
