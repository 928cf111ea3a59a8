package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/darkkaiser/leaf-server/internal/config"
	"github.com/darkkaiser/leaf-server/internal/service/contract"
	"github.com/darkkaiser/leaf-server/internal/store"
	"github.com/darkkaiser/leaf-server/pkg/strutil"
	"github.com/spf13/cobra"
)

func newAllocsCmd(configFile *string) *cobra.Command {
	var tags string

	cmd := &cobra.Command{
		Use:   "allocs",
		Short: "할당 저장소에 등록된 태그별 할당 레코드를 출력합니다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appConfig, err := config.LoadWithFile(*configFile)
			if err != nil {
				return err
			}

			return printAllocations(cmd.Context(), appConfig.Store, strutil.SplitAndTrim(tags, ","), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&tags, "tags", "t", "", "출력할 태그 목록 (쉼표로 구분, 비어 있으면 전체)")

	return cmd
}

// printAllocations 저장소를 열어 할당 레코드를 표 형식으로 출력합니다.
// tags 가 비어 있지 않으면 해당 태그만 출력합니다.
func printAllocations(ctx context.Context, cfg config.StoreConfig, tags []string, out io.Writer) error {
	allocStore, err := store.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer allocStore.Close()

	allocs, err := allocStore.ListAllocations(ctx)
	if err != nil {
		return err
	}

	if len(tags) > 0 {
		allocs = slices.DeleteFunc(allocs, func(a contract.Allocation) bool {
			return !slices.Contains(tags, a.Key)
		})
	}
	slices.SortFunc(allocs, func(a, b contract.Allocation) int {
		return strings.Compare(a.Key, b.Key)
	})

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAG\tMAX_ID\tSTEP\tUPDATE_TIME\tDESCRIPTION")
	for _, a := range allocs {
		updated := "-"
		if !a.UpdateTime.IsZero() {
			updated = a.UpdateTime.Local().Format(time.DateTime)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.Key, strutil.FormatCommas(a.MaxID), strutil.FormatCommas(a.Step), updated, a.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "총 %s개의 태그\n", strutil.FormatCommas(len(allocs)))
	return err
}
