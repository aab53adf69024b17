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

package cmd

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/consent-mgmt/consent-validation-service/api"
	engine2 "github.com/consent-mgmt/consent-validation-service/engine"
	pkg2 "github.com/consent-mgmt/consent-validation-service/pkg"
)

const confAddress = "address"
const confLogLevel = "loglevel"
const version = `Consent validation service v0.1 -- HEAD`

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start consent-validation as a standalone api server",
	Run: func(cmd *cobra.Command, args []string) {
		server := echo.New()
		server.HideBanner = true
		server.Use(middleware.Logger())
		instance := pkg2.ValidationServiceInstance()
		api.RegisterHandlers(server, api.Wrapper{Vs: instance})
		server.Logger.Fatal(server.Start(viper.GetString(confAddress)))
	},
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	validationEngine := engine2.NewValidationServiceEngine()

	rootCommand := validationEngine.Cmd
	rootCommand.AddCommand(serveCommand)
	rootCommand.AddCommand(versionCommand)
	rootCommand.PersistentFlags().AddFlagSet(validationEngine.FlagSet)

	viper.SetEnvPrefix("CMP")
	viper.AutomaticEnv()
	if err := viper.BindPFlags(rootCommand.PersistentFlags()); err != nil {
		panic(err)
	}

	if level, err := logrus.ParseLevel(viper.GetString(confLogLevel)); err == nil {
		logrus.SetLevel(level)
	}

	if err := validationEngine.Configure(); err != nil {
		panic(err)
	}
	if err := validationEngine.Start(); err != nil {
		panic(err)
	}
	defer func() {
		if err := validationEngine.Shutdown(); err != nil {
			fmt.Println(err)
		}
	}()

	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
