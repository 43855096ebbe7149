package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/yatradesk/tourdata/internal/model"
)

var (
	fetchState string
	fetchPlace string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <places|festivals|place-detail>",
	Short: "Run one pipeline pass and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindFromArg(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		state := fetchState
		if state == "" {
			state = cfg.Pipeline.DefaultState
		}

		var subject model.Subject
		if kind == model.KindPlaceDetail {
			if fetchPlace == "" {
				return eris.New("--place is required for place-detail")
			}
			subject = model.PlaceSubject(state, fetchPlace)
		} else {
			subject = model.StateSubject(state)
		}

		result, err := env.Pipeline.Run(ctx, kind, subject)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(result), "encode result")
	},
}

func kindFromArg(arg string) (model.Kind, error) {
	switch arg {
	case "places":
		return model.KindPlace, nil
	case "festivals":
		return model.KindFestival, nil
	case "place-detail":
		return model.KindPlaceDetail, nil
	default:
		return "", eris.Errorf("unknown entity kind %q", arg)
	}
}

func init() {
	fetchCmd.Flags().StringVar(&fetchState, "state", "", "state to fetch for (default from config)")
	fetchCmd.Flags().StringVar(&fetchPlace, "place", "", "place name (place-detail only)")
	rootCmd.AddCommand(fetchCmd)
}
