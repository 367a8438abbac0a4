/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

// Counters are the forwarding counters of a processor, broken down by outcome.
type Counters struct {
	InterestsReceived       uint64 `json:"interestsReceived"`
	ObjectsReceived         uint64 `json:"objectsReceived"`
	ControlReceived         uint64 `json:"controlReceived"`
	InterestReturnsReceived uint64 `json:"interestReturnsReceived"`

	InterestsForwarded          uint64 `json:"interestsForwarded"`
	InterestsAggregated         uint64 `json:"interestsAggregated"`
	InterestsSatisfiedFromStore uint64 `json:"interestsSatisfiedFromStore"`
	ObjectsForwarded            uint64 `json:"objectsForwarded"`

	DroppedParseError             uint64 `json:"droppedParseError"`
	DroppedUnsupported            uint64 `json:"droppedUnsupported"`
	DroppedZeroHopLimitFromRemote uint64 `json:"droppedZeroHopLimitFromRemote"`
	DroppedZeroHopLimitToRemote   uint64 `json:"droppedZeroHopLimitToRemote"`
	DroppedNoRoute                uint64 `json:"droppedNoRoute"`
	DroppedNexthopIsIngress       uint64 `json:"droppedNexthopIsIngress"`
	DroppedConnectionNotFound     uint64 `json:"droppedConnectionNotFound"`
	DroppedNoReversePath          uint64 `json:"droppedNoReversePath"`
	DroppedControl                uint64 `json:"droppedControl"`
	SendFailures                  uint64 `json:"sendFailures"`
}
