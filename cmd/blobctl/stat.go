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
	"errors"
	"fmt"
	"io"

	"github.com/byo/contentstore/blob"
	"github.com/spf13/cobra"
)

func statCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <hash>",
		Short: "Report whether a blob exists and its size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			h, err := blob.ParseHash(args[0])
			if err != nil {
				return err
			}

			n, err := countingGet(cmd, store, h)
			if errors.Is(err, blob.ErrNotFound) {
				fmt.Println("not found")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Printf("%s: %d bytes\n", h, n)
			return nil
		},
	}
}

func countingGet(cmd *cobra.Command, store blob.BlobStore, h blob.Hash) (int64, error) {
	var n int64
	cw := countingWriter{n: &n}
	err := store.Get(cmd.Context(), h, cw)
	return n, err
}

type countingWriter struct{ n *int64 }

func (w countingWriter) Write(p []byte) (int, error) {
	*w.n += int64(len(p))
	return len(p), nil
}

var _ io.Writer = countingWriter{}
