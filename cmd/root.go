package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "golang-quizlink",
	Short: "golang-quizlink keeps a quiz display online and drives its answer outputs",
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
