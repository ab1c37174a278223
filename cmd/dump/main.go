package main

import (
	"flag"
	"fmt"
	"log"
	"math/big"
	"strings"

	rpctoken "github.com/neoledger/token-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// storage key layout of the token contract, see contracts/token.
const (
	balancePrefix   = 'b'
	allowancePrefix = 'a'
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractHashStr := flag.String("contract", "", "Hash of the deployed token contract (LE, with or without 0x)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractHashStr == "":
		log.Fatal("missing token contract hash")
	}

	contractHash, err := util.Uint160DecodeStringLE(strings.TrimPrefix(*contractHashStr, "0x"))
	if err != nil {
		log.Fatal(fmt.Errorf("decode contract hash: %w", err))
	}

	err = dump(*neoRPCEndpoint, contractHash)
	if err != nil {
		log.Fatal(err)
	}
}

func dump(neoBlockchainRPCEndpoint string, contractHash util.Uint160) error {
	b, err := newRemoteBlockchain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	reader := rpctoken.NewReader(invoker.New(b.rpc, nil), contractHash)

	name, err := reader.Name()
	if err != nil {
		return fmt.Errorf("get token name: %w", err)
	}
	symbol, err := reader.Symbol()
	if err != nil {
		return fmt.Errorf("get token symbol: %w", err)
	}
	supply, err := reader.TotalSupply()
	if err != nil {
		return fmt.Errorf("get total supply: %w", err)
	}
	version, err := reader.Version()
	if err != nil {
		return fmt.Errorf("get contract version: %w", err)
	}

	fmt.Printf("%s (%s), version %s, total supply %s\n", name, symbol, version, supply)

	balanceSum := new(big.Int)

	err = b.iterateContractStorage(contractHash, func(key, value []byte) error {
		if len(key) == 0 {
			return nil
		}

		switch key[0] {
		case balancePrefix:
			acc, err := util.Uint160DecodeBytesBE(key[1:])
			if err != nil {
				return fmt.Errorf("decode balance account from storage key: %w", err)
			}

			amount := bigint.FromBytes(value)
			balanceSum.Add(balanceSum, amount)

			fmt.Printf("balance   %s -> %s\n", address.Uint160ToString(acc), amount)
		case allowancePrefix:
			if len(key) != 1+2*util.Uint160Size {
				return fmt.Errorf("unexpected allowance storage key length %d", len(key))
			}

			owner, err := util.Uint160DecodeBytesBE(key[1 : 1+util.Uint160Size])
			if err != nil {
				return fmt.Errorf("decode allowance owner from storage key: %w", err)
			}
			spender, err := util.Uint160DecodeBytesBE(key[1+util.Uint160Size:])
			if err != nil {
				return fmt.Errorf("decode allowance spender from storage key: %w", err)
			}

			fmt.Printf("allowance %s -> %s: %s\n",
				address.Uint160ToString(owner), address.Uint160ToString(spender), bigint.FromBytes(value))
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("iterate token contract storage: %w", err)
	}

	if balanceSum.Cmp(supply) != 0 {
		return fmt.Errorf("conservation violation: sum of balances %s != total supply %s", balanceSum, supply)
	}

	log.Printf("token state is consistent, %s in %s\n", supply, symbol)
	return nil
}
