package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/forecast"
	appinv "github.com/andyspruebas-jpg/Stock-Pro/internal/application/inventory"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	domaininv "github.com/andyspruebas-jpg/Stock-Pro/internal/domain/inventory"
	infrapdf "github.com/andyspruebas-jpg/Stock-Pro/internal/infrastructure/pdf"
	"github.com/andyspruebas-jpg/Stock-Pro/pkg/logger"
)

// fileSnapshotRepo lee la foto de un archivo JSON con el formato de dto.SnapshotDTO.
type fileSnapshotRepo struct {
	path string
}

func (r fileSnapshotRepo) Load(_ context.Context) (*entity.Snapshot, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("leer snapshot: %w", err)
	}
	var in dto.SnapshotDTO
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", r.path, err)
	}
	return in.ToEntity(), nil
}

type runtime struct {
	params    domaininv.Params
	log       *logger.Logger
	rebalance *appinv.RebalanceUseCase
}

func newRuntime(c *cli.Context, snapshotPath string) *runtime {
	params := domaininv.DefaultParams()
	params.WindowDays = c.Float64("window-days")
	params.ABC.GlobalForceAAUnits = c.Float64("force-aa-units")

	log := logger.Nop()
	if c.Bool("verbose") {
		// stdout queda para el JSON del resultado
		log = logger.FromZerolog(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
			Level(zerolog.DebugLevel).With().Timestamp().Logger())
	}
	rt := &runtime{params: params, log: log}
	var src appinv.SnapshotSource
	if snapshotPath != "" {
		src = appinv.NewSnapshotUseCase(fileSnapshotRepo{path: snapshotPath}, nil, params.ABC, 0, log)
	}
	rt.rebalance = appinv.NewRebalanceUseCase(
		domaininv.NewEngine(params), src,
		forecast.NewHeuristicPredictor(params),
		infrapdf.NewMarotoPDFGenerator(""),
		log,
	)
	return rt
}

func runClassify(c *cli.Context) error {
	rt := newRuntime(c, "")
	values := map[string]float64{}
	switch {
	case c.String("values") != "":
		raw, err := os.ReadFile(c.String("values"))
		if err != nil {
			return fmt.Errorf("leer valores: %w", err)
		}
		if err := json.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("valores %s: %w", c.String("values"), err)
		}
	case c.String("snapshot") != "":
		snap, err := fileSnapshotRepo{path: c.String("snapshot")}.Load(c.Context)
		if err != nil {
			return err
		}
		for i := range snap.Products {
			values[snap.Products[i].ID] = snap.Products[i].TotalSales()
		}
	default:
		return cli.Exit("--values o --snapshot requerido", 2)
	}

	req := dto.ClassifyRequest{Values: values}
	if ft := c.Float64("force-top"); ft >= 0 {
		req.ForceTopThreshold = &ft
	}
	out, err := rt.rebalance.Classify(c.Context, req)
	if err != nil {
		return err
	}
	return printJSON(c, out)
}

func runGlobal(c *cli.Context) error {
	rt := newRuntime(c, c.String("snapshot"))
	out, err := rt.rebalance.PlanGlobal(c.Context, dto.GlobalRebalanceRequest{
		DestinationID:  c.String("dest"),
		UsePredictions: c.Bool("predict"),
	})
	if err != nil {
		return err
	}
	return printJSON(c, out)
}

func runPairwise(c *cli.Context) error {
	rt := newRuntime(c, c.String("snapshot"))
	req := dto.PairwiseTransferRequest{SourceID: c.String("source"), DestinationID: c.String("dest")}

	if path := c.String("pdf"); path != "" {
		pdf, order, err := rt.rebalance.TransferOrderPDF(c.Context, req)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			return fmt.Errorf("escribir PDF: %w", err)
		}
		rt.log.Info().Str("run_id", order.RunID).Str("path", path).Int("lines", len(order.Lines)).Msg("orden de traspaso generada")
	}

	out, err := rt.rebalance.EvaluatePairwise(c.Context, req)
	if err != nil {
		return err
	}
	return printJSON(c, out)
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
