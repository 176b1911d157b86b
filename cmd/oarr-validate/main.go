package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"oarr/internal/adapters/probe"
	"oarr/internal/core/register"
	"oarr/internal/core/registryfile"
	"oarr/internal/platform/logger"
	"oarr/internal/services/discovery/domain"
	"oarr/internal/services/discovery/service"
)

func main() {
	var (
		fFile = flag.String("f", "", "registry file to validate")
		fURL  = flag.String("u", "", "url of a registry file to validate")
	)
	flag.Parse()

	l := logger.Named("validate")
	if (*fFile == "") == (*fURL == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -f or -u is required")
		flag.Usage()
		os.Exit(2)
	}

	svc := service.New(probe.NewClient(probe.FromEnv()), domain.Ports{}, service.Config{})
	ctx := context.Background()

	var (
		r   *register.Register
		err error
	)
	if *fFile != "" {
		content, rerr := os.ReadFile(*fFile)
		if rerr != nil {
			l.Fatal().Err(rerr).Str("file", *fFile).Msg("read registry file")
		}
		r, err = svc.DiscoverFromFile(ctx, content, *fFile)
	} else {
		r, err = svc.DiscoverFromURL(ctx, *fURL)
	}

	var fe *registryfile.Error
	switch {
	case errors.As(err, &fe):
		fmt.Println(fe.Message)
		for _, msg := range fe.Errors {
			fmt.Println("  " + msg)
		}
		os.Exit(1)
	case err != nil:
		l.Fatal().Err(err).Msg("validation did not run")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(r)
}
