// Package config wraps the engine's connection-config and trust
// records behind builder-constructed, exactly-once-released handles.
//
// Builders are linear: each With* call mutates the engine record in
// place and returns the same builder, and Finish spends it. Go cannot
// enforce move semantics at compile time, so a spent builder carries a
// runtime flag and any further use fails fast.
//
// Trust records transfer: WithTrust moves ownership of a Trust into the
// config, and Config.Trust hands the record back out only as a borrowed
// TrustView with no release operation.
package config
