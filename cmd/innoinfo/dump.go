// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/saferwall/inno"
)

func openDocument(path string) (*inno.Document, error) {
	return inno.Open(path, &inno.Options{
		SkipWizard:    skipWizard,
		SkipSignature: skipSignature,
	})
}

func headerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header <installer.exe>",
		Short: "Print the setup header's identity and layout fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openDocument(args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "Version:\t%s\n", doc.Version)
			fmt.Fprintf(w, "AppName:\t%s\n", doc.Strings["AppName"])
			fmt.Fprintf(w, "AppVersion:\t%s\n", doc.Strings["AppVersion"])
			fmt.Fprintf(w, "AppPublisher:\t%s\n", doc.Strings["AppPublisher"])
			fmt.Fprintf(w, "AppID:\t%s\n", doc.Strings["AppID"])
			fmt.Fprintf(w, "Compression:\t%s\n", doc.Header.Compression)
			fmt.Fprintf(w, "Encrypted:\t%t\n", doc.EncryptionHeader != nil)
			fmt.Fprintf(w, "Languages:\t%d\n", len(doc.Languages))
			fmt.Fprintf(w, "Components:\t%d\n", len(doc.Components))
			fmt.Fprintf(w, "Tasks:\t%d\n", len(doc.Tasks))
			fmt.Fprintf(w, "Files:\t%d\n", len(doc.Files))
			if doc.Signer != nil {
				fmt.Fprintf(w, "Signer:\t%s\n", doc.Signer.Subject)
			}
			return nil
		},
	}
}

func filesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files <installer.exe>",
		Short: "List the installer's [Files] entries and their locations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openDocument(args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "SOURCE\tDEST\tTYPE\n")
			for _, f := range doc.Files {
				fmt.Fprintf(w, "%s\t%s\t%s\n", f.Source, f.Destination, f.Type)
			}
			return nil
		},
	}
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <installer.exe>",
		Short: "Print the entire parsed document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openDocument(args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
}
