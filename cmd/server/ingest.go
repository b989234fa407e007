package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"docqa/pkg/document/service"
	docSvcImp "docqa/pkg/document/serviceImp"
	"docqa/pkg/extract"
	folderSvc "docqa/pkg/folder/service"
	"docqa/pkg/training"
	"docqa/pkg/vectorindex/memory"
)

func ingestDirCmd() *cobra.Command {
	var folderName string
	cmd := &cobra.Command{
		Use:   "ingest-dir <path>",
		Short: "Ingest every supported file below a directory as one batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			if _, ok := a.index.(*memory.Index); ok {
				slog.Info("[index] in-memory index is rebuilt from the document store when the server starts")
			}

			uploads, skipped, err := docSvcImp.LoadDir(args[0], extract.New().Supports)
			if err != nil {
				return err
			}
			for _, p := range skipped {
				slog.Warn("[ingest] skipping unsupported file", "path", p)
			}

			var opts service.IngestOptions
			if name := strings.TrimSpace(folderName); name != "" {
				id, err := ensureFolder(ctx, a.folders, name)
				if err != nil {
					return err
				}
				opts.FolderID = &id
			}

			res, err := a.docs.Ingest(ctx, uploads, opts)
			if res != nil {
				for _, r := range res.Results {
					fmt.Fprintf(cmd.OutOrStdout(), "%-40s %-9s %s\n", r.Filename, r.Status, r.Reason)
				}
			}
			if errors.Is(err, service.ErrNoValidFiles) {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err != nil {
				return err
			}
			slog.Info("[ingest] extraction complete", "documents", len(res.Files))
			return nil
		},
	}
	cmd.Flags().StringVar(&folderName, "folder", "", "create this folder and file the documents under it")
	return cmd
}

func ensureFolder(ctx context.Context, folders folderSvc.FolderService, name string) (uint, error) {
	f, err := folders.Create(ctx, name)
	if err == nil {
		return f.ID, nil
	}
	if !errors.Is(err, folderSvc.ErrFolderExists) {
		return 0, err
	}
	list, err := folders.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, f := range list {
		if f.Name == name {
			return f.ID, nil
		}
	}
	return 0, fmt.Errorf("folder %q vanished", name)
}

func exportTrainingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-training <out.jsonl>",
		Short: "Write prompt/completion training data for the stored documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := training.ExportFile(cmd.Context(), a.docs, args[0])
			if err != nil {
				return err
			}
			slog.Info("[training] data saved", "path", args[0], "examples", n)
			return nil
		},
	}
}
