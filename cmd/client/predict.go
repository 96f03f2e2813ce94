package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sepsisguard/client"
	"sepsisguard/schema"
)

func newPredictCmd(opts *options) *cobra.Command {
	values := make(map[string]*float64, len(schema.Fields))

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Send one feature vector and print the prediction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fv, err := buildFeatureVector(values)
			if err != nil {
				return err
			}

			s, err := newSession(opts)
			if err != nil {
				return err
			}
			defer s.logger.Sync()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			resp, err := s.client.Predict(ctx, s.model, fv)
			if err != nil {
				s.logger.Warn("prediction failed", zap.String("model", s.model), zap.Error(err))
				return err
			}
			printResult(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	for _, f := range schema.Fields {
		values[f.Name] = new(float64)
		cmd.Flags().Float64Var(values[f.Name], flagName(f), f.Min, f.Description)
	}
	return cmd
}

func flagName(f schema.Field) string {
	return strings.ToLower(f.Name)
}

// buildFeatureVector 校验并写入命令行参数，不做范围裁剪
func buildFeatureVector(values map[string]*float64) (schema.FeatureVector, error) {
	var fv schema.FeatureVector
	for _, f := range schema.Fields {
		if err := fv.Set(f.Name, *values[f.Name]); err != nil {
			return fv, fmt.Errorf("--%s: %w", flagName(f), err)
		}
	}
	return fv, nil
}

func printResult(w io.Writer, resp schema.PredictionResponse) {
	fmt.Fprintln(w, client.Verdict(resp))
	fmt.Fprintln(w, client.Outlook(resp))
	fmt.Fprintln(w, client.Chance(resp))
}
