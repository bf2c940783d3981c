package inventory

import (
	"fmt"
	"strings"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	domaininv "github.com/andyspruebas-jpg/Stock-Pro/internal/domain/inventory"
)

const (
	summaryTopSuggestions   = 5
	summaryTopOpportunities = 3
)

// PairwiseSummary resumen determinista de una corrida origen→destino.
func PairwiseSummary(res domaininv.PairwiseResult, source, destination entity.Warehouse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transfer %s -> %s: %d products analysed, %d approved, %d opportunities, %d rejected.",
		source.DisplayName(), destination.DisplayName(),
		res.Stats.Total, res.Stats.Approved, res.Stats.Opportunities, res.Stats.Rejected)

	if len(res.Suggestions) == 0 {
		b.WriteString("\nNo transfer reaches the approval score.")
	} else {
		var units float64
		for _, s := range res.Suggestions {
			units += s.Quantity
		}
		fmt.Fprintf(&b, "\nTotal units to move: %.0f.", units)
		b.WriteString("\nTop suggestions:")
		for i, s := range res.Suggestions {
			if i == summaryTopSuggestions {
				break
			}
			fmt.Fprintf(&b, "\n- %s: %.0f units (score %.1f, %s)", s.ProductName, s.Quantity, s.Score, s.Phase)
		}
	}

	if len(res.Opportunities) > 0 {
		b.WriteString("\nMicro-transfer opportunities:")
		for i, s := range res.Opportunities {
			if i == summaryTopOpportunities {
				break
			}
			fmt.Fprintf(&b, "\n- %s: %.0f units", s.ProductName, s.Quantity)
		}
	}
	return b.String()
}

// GlobalSummary resumen determinista de una corrida global.
func GlobalSummary(plan domaininv.GlobalPlan, destination entity.Warehouse) string {
	var b strings.Builder
	rescue := 0
	for _, p := range plan.Products {
		if p.Phase == domaininv.PhaseRescue {
			rescue++
		}
	}
	fmt.Fprintf(&b, "Destination %s: %d products analysed, %d with donors (%d in rescue), %d rejected.",
		destination.DisplayName(), plan.Stats.Total, plan.Stats.WithSuggestions, rescue, plan.Stats.Rejected)
	if plan.Stats.PredictionsActive {
		b.WriteString(" Demand forecast applied.")
	}
	for i, p := range plan.Products {
		if i == summaryTopSuggestions {
			break
		}
		fmt.Fprintf(&b, "\n- %s: %.0f units from %s (score %.1f, %s)",
			p.ProductName, p.BestQuantity, p.BestSourceName, p.Score, p.Phase)
	}
	return b.String()
}
