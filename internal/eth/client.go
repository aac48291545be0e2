// Package eth dials the Ethereum JSON-RPC endpoint used for reserve sync.
package eth

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Dial connects to url and checks that the node answers eth_blockNumber
// before returning the client.
func Dial(ctx context.Context, url string) (*ethclient.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	if _, err := client.BlockNumber(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("probe %s: %w", url, err)
	}
	return client, nil
}
