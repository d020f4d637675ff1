// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/veracity/internal/client"
	"github.com/pdiddy/veracity/internal/inference"
	"github.com/pdiddy/veracity/pkg/types"
)

var predictCmd = &cobra.Command{
	Use:   "predict [record.json]",
	Short: "Classify one JSON record locally or through a running server",
	Long: `Predict reads a single JSON record (the same body POST /predict accepts)
from the given file, or from stdin when no file is given or the file is "-".

By default the model directory is loaded in-process. With --server the record
is sent to a running veracity server instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPredict,
}

func runPredict(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening record: %w", err)
		}
		defer f.Close()
		in = f
	}

	var req types.PredictRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}

	serverURL, _ := cmd.Flags().GetString("server")
	var (
		resp types.PredictResponse
		err  error
	)
	if serverURL != "" {
		resp, err = client.New(serverURL).Predict(context.Background(), req)
	} else {
		resp, err = predictLocal(modelDirFlag(cmd, cfg.Serve.ModelDir), req)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func predictLocal(dir string, req types.PredictRequest) (types.PredictResponse, error) {
	if err := req.Validate(); err != nil {
		return types.PredictResponse{}, fmt.Errorf("invalid record: %v", types.FieldErrors(err))
	}
	ic, err := inference.Load(dir)
	if err != nil {
		return types.PredictResponse{}, err
	}
	pred, err := ic.Predict(req.Record())
	if err != nil {
		return types.PredictResponse{}, err
	}

	resp := types.PredictResponse{PredictedLabel: string(pred.Label)}
	if req.Label != "" {
		correct := req.Label == string(pred.Label)
		resp.TrueLabel = req.Label
		resp.Correct = &correct
	}
	return resp, nil
}

func init() {
	predictCmd.Flags().String("model-dir", "models", "directory containing features.json and model.json")
	predictCmd.Flags().String("server", "", "base URL of a running veracity server, e.g. http://localhost:5042")

	rootCmd.AddCommand(predictCmd)
}
