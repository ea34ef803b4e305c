// echo-signer CLI - offline key management and transaction signing for
// Echo (Graphene family) networks.
//
// Example usage:
//
//	# Generate a key pair
//	echo-signer keygen
//
//	# Show the public key of a WIF private key
//	echo-signer pubkey --wif 5K...
//
//	# Build and sign a transfer of 100 units of 1.3.0
//	echo-signer transfer --chain-id 39f5... \
//	  --head-block-number 123456 --head-block-id 0001e240... \
//	  --head-block-time 2019-01-10T10:00:00Z \
//	  --from 1.2.18 --to 1.2.19 --amount 100 --fee 20 --wif 5K...
//
//	# Recover the signer of a compact signature
//	echo-signer recover --digest <hex> --signature <hex>
package main

func main() {
	Execute()
}
