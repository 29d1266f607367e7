package cli

func regCommands() {
	//Users
	usersCmd.AddCommand(users_genCmd)

	//Tx
	txCmd.AddCommand(tx_genCmd)

	//Chain
	chainCmd.AddCommand(chain_verifyCmd)
	chainCmd.AddCommand(chain_findCmd)
	chainCmd.AddCommand(chain_genesisCmd)

	//Root
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(bodyCmd)
	rootCmd.AddCommand(chunksCmd)
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(raceCmd)
	rootCmd.AddCommand(chainCmd)
}
