/*
 *  Consent validation service holds the decision logic for consent based data access
 *  Copyright (C) 2025 Consent Management Platform community
 *
 *  This program is free software: you can redistribute it and/or modify
 *  it under the terms of the GNU General Public License as published by
 *  the Free Software Foundation, either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  This program is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *  GNU General Public License for more details.
 *
 *  You should have received a copy of the GNU General Public License
 *  along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package engine

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/consent-mgmt/consent-validation-service/api"
	"github.com/consent-mgmt/consent-validation-service/pkg"
)

// Engine describes a startable service unit: its lifecycle hooks, its config
// key and flag set, its sub-commands and its HTTP routes.
type Engine struct {
	Name      string
	Cmd       *cobra.Command
	ConfigKey string
	FlagSet   *pflag.FlagSet
	Configure func() error
	Start     func() error
	Shutdown  func() error
	Routes    func(router api.EchoRouter)
}

// NewValidationServiceEngine wraps the validation service singleton in an
// engine descriptor.
func NewValidationServiceEngine() *Engine {
	vs := pkg.ValidationServiceInstance()

	return &Engine{
		Name:      "ValidationServiceInstance",
		Cmd:       cmd(),
		Configure: vs.Configure,
		Start:     vs.Start,
		ConfigKey: "consent",
		FlagSet:   flagSet(),
		Shutdown:  vs.Shutdown,
		Routes: func(router api.EchoRouter) {
			api.RegisterHandlers(router, api.Wrapper{Vs: vs})
		},
	}
}

func flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("consent", pflag.ContinueOnError)
	flags.String("address", "localhost:1324", "Address the api server binds to")
	flags.String("loglevel", "info", "Log level (trace, debug, info, warn, error)")
	return flags
}

func cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consent-validation",
		Short: "consent validation commands",
	}
}
