/*
Copyright © 2022 Bartłomiej Święcki (byo)

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
	"fmt"
	"os"

	"github.com/byo/contentstore/blob"
	"github.com/spf13/cobra"
)

var (
	storeKind string
	storeRoot string
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blobctl",
		Short: "Operate on a content-addressed blob store",
		Long: `blobctl puts and gets blobs from a content-addressed store.

Use --store to pick a backend:

  mem          in-memory, discarded on exit (only useful with "serve")
  file         on-disk, fan-out directory layout under --root
  zipped-file  file backend wrapped in transparent zlib compression
`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help() //nolint:errcheck
		},
	}

	cmd.PersistentFlags().StringVar(&storeKind, "store", "file", "backend: mem|file|zipped-file")
	cmd.PersistentFlags().StringVar(&storeRoot, "root", "./blobstore-data", "root directory for file-backed stores")

	cmd.AddCommand(putCmd())
	cmd.AddCommand(getCmd())
	cmd.AddCommand(statCmd())
	cmd.AddCommand(serveCmd())

	return cmd
}

func openStore() (blob.BlobStore, error) {
	switch storeKind {
	case "mem":
		return blob.NewMemStore(), nil
	case "file":
		return blob.NewFileStore(storeRoot)
	case "zipped-file":
		fs, err := blob.NewFileStore(storeRoot)
		if err != nil {
			return nil, err
		}
		return blob.NewZippedStore(fs), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", storeKind)
	}
}

// Execute adds all child commands to the root command and runs it. It is
// called once by main.main.
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
