// Package secp256k1 provides the secp256k1 implementation of [group.Group],
// backed by btcec.
//
// secp256k1 is the Koblitz curve y^2 = x^3 + 7 used by Bitcoin and Ethereum.
// Its group has prime order
//
//	n = 0xFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141
//
// and cofactor 1, so every point on the curve belongs to the group generated
// by the standard base point.
//
// Points are encoded in SEC1 compressed form (33 bytes). The identity, which
// has no SEC1 representation, is encoded as the single byte 0x00.
package secp256k1
