package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fleshka4/quote-aggregator/internal/app"
	"github.com/fleshka4/quote-aggregator/internal/config"
	"github.com/fleshka4/quote-aggregator/internal/logger"
	"github.com/fleshka4/quote-aggregator/internal/model"
	transport "github.com/fleshka4/quote-aggregator/internal/transport/http"
	"github.com/fleshka4/quote-aggregator/internal/transport/http/validate"
)

const defaultConfigPath = "cfg/config.yaml"

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return defaultConfigPath
}

func newRootCommand() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "quote-aggregator",
		Short:         "Aggregates swap and bridge quotes across DEX and bridge providers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", configPath(), "path to the YAML config")

	root.AddCommand(newServeCommand(&cfgPath), newQuoteCommand(&cfgPath))
	return root
}

func newServeCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return errors.Wrap(err, "config.Load")
			}
			log := logger.New(cfg.LogLevel)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return errors.Wrap(err, "app.New")
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close application")
				}
			}()

			go a.ReloadTokens(ctx)

			srv, err := transport.NewServer(a.Service, cfg, log)
			if err != nil {
				return errors.Wrap(err, "transport.NewServer")
			}
			return srv.ListenAndServe(cfg.ListenAddr)
		},
	}
}

type quoteFlags struct {
	fromChain   uint64
	toChain     uint64
	fromToken   string
	toToken     string
	fromAddress string
	toAddress   string
	amount      string
	slippage    string
	dapps       []string
}

func newQuoteCommand(cfgPath *string) *cobra.Command {
	var f quoteFlags

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Request quotes once and print the response envelope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bps, err := validate.SlippageBps(f.slippage)
			if err != nil {
				return errors.Wrap(err, "--slippage")
			}

			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return errors.Wrap(err, "config.Load")
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return errors.Wrap(err, "app.New")
			}
			defer func() { _ = a.Close() }()

			req := model.QuoteRequest{
				FromChainID:      f.fromChain,
				ToChainID:        f.toChain,
				FromTokenAddress: f.fromToken,
				ToTokenAddress:   f.toToken,
				FromAddress:      f.fromAddress,
				ToAddress:        f.toAddress,
				Amount:           f.amount,
				SlippageBps:      bps,
				Providers:        trimAll(f.dapps),
			}

			env, err := a.Service.Quote(cmd.Context(), req)
			if err != nil {
				return errors.Wrap(err, "a.Service.Quote")
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(env)
		},
	}

	flags := cmd.Flags()
	flags.Uint64Var(&f.fromChain, "from-chain", 0, "source chain id")
	flags.Uint64Var(&f.toChain, "to-chain", 0, "destination chain id, defaults to the source chain")
	flags.StringVar(&f.fromToken, "from-token", "", "source token address")
	flags.StringVar(&f.toToken, "to-token", "", "destination token address")
	flags.StringVar(&f.fromAddress, "from-address", "", "sender address")
	flags.StringVar(&f.toAddress, "to-address", "", "receiver address, defaults to the sender")
	flags.StringVar(&f.amount, "amount", "", "amount in base units of the source token")
	flags.StringVar(&f.slippage, "slippage", "", "slippage percentage, 1 when unset")
	flags.StringSliceVar(&f.dapps, "dapps", nil, "restrict the query to these providers")
	return cmd
}

func trimAll(list []string) []string {
	var out []string
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
