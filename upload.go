package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/interfaces"
	"github.com/reisen39/namarec/live/plugins"
	"github.com/reisen39/namarec/live/state"
	"github.com/reisen39/namarec/utils"
)

var uploadUser string

var uploadCmd = &cobra.Command{
	Use:   "upload <localpath>",
	Short: "Upload a finished recording to the channel's remote directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bootstrap()
		return runUpload(args[0])
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadUser, "user", "", "channel name the file belongs to (required)")
	_ = uploadCmd.MarkFlagRequired("user")
}

func runUpload(localPath string) error {
	ledger, err := state.OpenLedger(config.Config.LedgerFile)
	if err != nil {
		return err
	}
	defer ledger.Close()

	name := filepath.Base(localPath)
	video := &interfaces.VideoInfo{
		Title:    name,
		Date:     utils.GetTimeNow(),
		FileName: name,
		FilePath: localPath,
		Provider: "Manual",
		UsersConfig: config.UsersConfig{
			Name: utils.RemoveIllegalChar(uploadUser),
		},
	}

	remotePath, err := plugins.UploadRecording(ledger, video)
	if err != nil {
		return err
	}
	if remotePath == "" {
		fmt.Printf("%s was already uploaded\n", localPath)
		return nil
	}
	fmt.Printf("uploaded %s to %s\n", localPath, remotePath)
	return nil
}
