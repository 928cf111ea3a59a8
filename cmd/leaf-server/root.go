package main

import (
	"github.com/darkkaiser/leaf-server/internal/config"
	"github.com/spf13/cobra"
)

// newRootCmd 하위 명령 없이 실행되면 서버를 구동하는 루트 명령을 생성합니다.
func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   config.AppName,
		Short: "태그별 단조 증가 ID를 발급하는 세그먼트 기반 ID 발급 서버",
		Long: `태그별 단조 증가 ID를 발급하는 세그먼트 기반 ID 발급 서버입니다. ` +
			`하위 명령 없이 실행하면 serve 명령과 동일하게 동작합니다.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, configFile)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultFilename, "환경설정 파일 경로")

	rootCmd.AddCommand(
		newServeCmd(&configFile),
		newAllocsCmd(&configFile),
		newVersionCmd(),
	)

	return rootCmd
}
