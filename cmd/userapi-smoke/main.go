/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unikorn-cloud/userapi/pkg/config"
	"github.com/unikorn-cloud/userapi/pkg/fakeserver"
	"github.com/unikorn-cloud/userapi/pkg/logging"
	"github.com/unikorn-cloud/userapi/pkg/metrics"
	"github.com/unikorn-cloud/userapi/pkg/smoke"
	"github.com/unikorn-cloud/userapi/pkg/transport"
	"github.com/unikorn-cloud/userapi/pkg/userclient"
)

func main() {
	var params commandParams

	if !params.Read(os.Args) {
		os.Exit(2)
	}

	os.Exit(run(&params))
}

func run(params *commandParams) int {
	cfg, err := config.Read()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := params.Apply(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := logging.New(os.Stderr, cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	baseURL := cfg.BaseURL

	if cfg.Local() {
		server := fakeserver.Start(fakeserver.Options{
			Username: cfg.Username,
			Password: cfg.Password,
			Logger:   logger,
		})
		defer server.Close()

		baseURL = server.URL

		logger.Info("reference service started", "url", baseURL)
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.New(registry)

	requester, err := transport.New(baseURL,
		transport.WithTimeout(cfg.RequestTimeout),
		transport.WithAuthToken(cfg.AuthToken),
		transport.WithLogger(logger),
		transport.WithRecorder(recorder),
		transport.WithRequestLogging(cfg.LogRequests),
		transport.WithResponseLogging(cfg.LogResponses),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	client := userclient.New(requester,
		userclient.WithLogger(logger),
		userclient.WithPolicy(cfg.Policy()),
		userclient.WithRecorder(recorder),
	)

	pass := color.New(color.FgGreen, color.Bold).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Printf("Smoke testing %s as %s\n\n", baseURL, cfg.Username)

	report := smoke.New(client, cfg.Username, cfg.Password,
		smoke.WithLogger(logger),
		smoke.WithObserver(func(result smoke.Result) {
			if result.Passed() {
				fmt.Printf("%s %-12s %s\n", pass("PASS"), result.Name, faint(result.Duration))
				return
			}

			fmt.Printf("%s %-12s %s\n     %v\n", fail("FAIL"), result.Name, faint(result.Duration), result.Err)
		}),
	).Run(ctx)

	lines, err := metrics.Summary(registry)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Println()
	fmt.Println("Metrics:")

	for _, line := range lines {
		fmt.Println("  " + line)
	}

	if report.Failed() {
		return 1
	}

	return 0
}
