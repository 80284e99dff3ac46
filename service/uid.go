package service

import (
	"github.com/google/uuid"
)

// Platform identity. The uids are version 5 (SHA-1) uuids of the OIDs in
// the RFC 4122 OID namespace and must stay stable across releases.
const (
	PlatformOID     = "1.3.6.1.4.1.53446.1.2.0"
	PlatformVersion = "0.5.1"
	VendorOID       = "1.3.6.1.4.1.53446.1.3.0"
)

var (
	PlatformUID = OIDUID(PlatformOID)
	VendorUID   = OIDUID(VendorOID)
)

// UID computes the name-based (version 5) identifier of oid in namespace
func UID(namespace uuid.UUID, oid string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(oid))
}

// OIDUID computes the identifier of oid in the OID namespace
func OIDUID(oid string) uuid.UUID {
	return UID(uuid.NameSpaceOID, oid)
}
