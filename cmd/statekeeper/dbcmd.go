package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/NethermindEth/statekeeper/blockstore"
	"github.com/NethermindEth/statekeeper/core"
	"github.com/NethermindEth/statekeeper/db"
	"github.com/NethermindEth/statekeeper/db/pebble"
	"github.com/NethermindEth/statekeeper/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type DBInfo struct {
	MiniblockHeight     core.MiniblockNumber `json:"miniblock_height"`
	LatestMiniblockHash common.Hash          `json:"latest_miniblock_hash"`
	LatestTimestamp     uint64               `json:"latest_timestamp"`
	L1Batch             core.L1BatchNumber   `json:"l1_batch"`
	L1BatchMiniblocks   int                  `json:"l1_batch_miniblocks"`
	ProtocolVersion     string               `json:"protocol_version,omitempty"`
}

func DBCmd(defaultDBPath string) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database related operations",
		Long:  `This command allows you to perform database operations.`,
	}

	dbCmd.PersistentFlags().String(dbPathF, defaultDBPath, dbPathUsage)
	dbCmd.AddCommand(DBInfoCmd(), DBSizeCmd())
	return dbCmd
}

func DBInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Retrieve database information",
		Long:  `This subcommand retrieves and displays the last sealed miniblock and its L1 batch.`,
		RunE:  dbInfo,
	}
}

func DBSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Calculate database size information for each data type",
		Long:  `This subcommand retrieves and displays the storage of each data type stored in the database.`,
		RunE:  dbSize,
	}
}

func dbInfo(cmd *cobra.Command, args []string) error {
	dbPath, err := cmd.Flags().GetString(dbPathF)
	if err != nil {
		return err
	}

	database, err := openDB(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	store := blockstore.New(database, utils.NewNopZapLogger())
	head, err := store.Head()
	if errors.Is(err, blockstore.ErrEmptyChain) {
		fmt.Fprintln(cmd.OutOrStdout(), "No miniblock has been sealed yet")
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to get the latest miniblock: %w", err)
	}

	miniblocks, err := store.L1BatchMiniblocks(head.L1BatchNumber)
	if err != nil {
		return fmt.Errorf("failed to get the miniblocks of L1 batch %s: %w", head.L1BatchNumber, err)
	}

	info := DBInfo{
		MiniblockHeight:     head.Number,
		LatestMiniblockHash: head.Hash,
		LatestTimestamp:     head.Timestamp,
		L1Batch:             head.L1BatchNumber,
		L1BatchMiniblocks:   len(miniblocks),
	}
	if head.ProtocolVersion != nil {
		info.ProtocolVersion = head.ProtocolVersion.String()
	}

	jsonData, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}

func dbSize(cmd *cobra.Command, args []string) error {
	dbPath, err := cmd.Flags().GetString(dbPathF)
	if err != nil {
		return err
	}

	if dbPath == "" {
		return fmt.Errorf("--%v cannot be empty", dbPathF)
	}

	pebbleDB, err := openDB(dbPath)
	if err != nil {
		return err
	}
	defer pebbleDB.Close()

	var (
		totalSize  utils.DataSize
		totalCount uint

		items [][]string
	)

	buckets := db.BucketValues()
	for _, b := range buckets {
		fmt.Fprintf(cmd.OutOrStdout(), "Calculating size of %s, remaining buckets: %d\n", b, len(buckets)-int(b)-1)
		bucketItem, err := pebble.CalculatePrefixSize(cmd.Context(), pebbleDB.(*pebble.DB), []byte{byte(b)})
		if err != nil {
			return err
		}
		items = append(items, []string{b.String(), bucketItem.Size.String(), fmt.Sprintf("%d", bucketItem.Count)})

		totalSize += bucketItem.Size
		totalCount += bucketItem.Count
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Bucket", "Size", "Count"})
	table.AppendBulk(items)
	table.SetFooter([]string{"Total", totalSize.String(), fmt.Sprintf("%d", totalCount)})
	table.Render()

	return nil
}

func openDB(path string) (db.DB, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("database path does not exist")
	}

	database, err := pebble.New(path, 0, utils.NewNopZapLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	return database, nil
}
