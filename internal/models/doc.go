// Package models defines the core domain models for the settlement engine.
//
// # Model groups
//
//   - Receipt side: Receipt, ReceiptLine, ChargeLine. The structured bill as
//     produced by an upstream scanner (or hand-corrected by a user).
//   - Allocation side: Participant, Share, ChargeRule, Allocation. The
//     structured splitting instructions, as produced by an upstream
//     instruction parser.
//   - Result side: Settlement, SettlementEntry, ReasoningStep,
//     ValidationResult. The engine's output.
//
// Receipts and allocations are constructed once per settlement run from
// already-structured input, validated eagerly, and treated as read-only
// afterwards. Settlement results are produced fresh per run and never
// mutated.
//
// # Design principles
//
//  1. All monetary values are money.Money (integer minor units); quantities,
//     weights, and percentages are decimal.Decimal.
//  2. Relationships use ID strings, not pointers, to avoid circular
//     references and keep the models serializable.
//  3. Validation failures carry the offending line/charge/participant ID,
//     never a generic failure.
package models
