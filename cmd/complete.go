package cmd

import (
	"context"
	"flag"

	"github.com/etnz/folio/config"
	"github.com/etnz/folio/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete answers a shell completion request and exits, or returns if the
// process was not started for completion.
//
// Install it in bash with:
//
//	COMP_INSTALL=1 pcs
func Complete(name string, c *subcommands.Commander, top *flag.FlagSet) {
	completion(c, top).Complete(name)
}

// completion returns the completion tree of the registered subcommands and their flags.
func completion(c *subcommands.Commander, top *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(top),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(f)
		sub := &complete.Command{Flags: flagPredictors(f)}
		if cmd.Name() == "topic" {
			sub.Args = complete.PredictFunc(predictTopics)
		}
		root.Sub[cmd.Name()] = sub
	})
	return root
}

// predictors of flag values, by flag name.
var predictors = map[string]complete.Predictor{
	"store":  predict.Set{config.StoreFile, config.StoreSQLite, config.StoreMemory},
	"f":      predict.Set{"json", "csv", "md", "html"},
	"config": predict.Files("*"),
	"path":   predict.Files("*"),
	"o":      predict.Files("*"),
	"i":      predict.Files("*.json"),
	"quotes": predict.Files("*.json"),
	"id":     complete.PredictFunc(predictIDs),
	"s":      complete.PredictFunc(predictTickers),
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			m[fl.Name] = predict.Nothing
			return
		}
		if p, ok := predictors[fl.Name]; ok {
			m[fl.Name] = p
			return
		}
		m[fl.Name] = predict.Something
	})
	return m
}

// predictIDs lists the holding ids of the portfolio.
func predictIDs(prefix string) []string {
	s, err := openSession(context.Background(), "")
	if err != nil {
		return nil
	}
	defer s.Close()
	var ids []string
	for _, h := range s.tracker.Snapshot().Holdings() {
		ids = append(ids, h.ID)
	}
	return ids
}

func predictTopics(prefix string) []string {
	topics, _ := docs.GetAllTopics()
	return topics
}

// predictTickers lists the tickers held in the portfolio.
func predictTickers(prefix string) []string {
	s, err := openSession(context.Background(), "")
	if err != nil {
		return nil
	}
	defer s.Close()
	return s.tracker.Snapshot().Tickers()
}
