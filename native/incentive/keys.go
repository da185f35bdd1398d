package incentive

import "encoding/binary"

var (
	programPrefix     = []byte("incentive/program/")
	participantPrefix = []byte("incentive/participant/")
	proofPrefix       = []byte("incentive/proof/")
	claimPrefix       = []byte("incentive/claim/")
	claimIndexPrefix  = []byte("incentive/claim-index/")
	adminIndexPrefix  = []byte("incentive/admin-index/")
	programCounterKey = []byte("incentive/program-counter")
)

func programIDBytes(id uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}

func programKey(id uint64) []byte {
	return append(append([]byte(nil), programPrefix...), programIDBytes(id)...)
}

func pairKey(prefix []byte, id uint64, user [20]byte) []byte {
	key := make([]byte, 0, len(prefix)+8+1+len(user))
	key = append(key, prefix...)
	key = append(key, programIDBytes(id)...)
	key = append(key, '/')
	key = append(key, user[:]...)
	return key
}

func participantKey(id uint64, user [20]byte) []byte {
	return pairKey(participantPrefix, id, user)
}

func proofKey(id uint64, user [20]byte) []byte {
	return pairKey(proofPrefix, id, user)
}

func claimKey(id uint64, user [20]byte) []byte {
	return pairKey(claimPrefix, id, user)
}

func claimIndexKey(id uint64) []byte {
	return append(append([]byte(nil), claimIndexPrefix...), programIDBytes(id)...)
}

func adminIndexKey(admin [20]byte) []byte {
	return append(append([]byte(nil), adminIndexPrefix...), admin[:]...)
}
