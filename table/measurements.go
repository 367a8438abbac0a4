/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"strconv"
	"time"

	"github.com/cornelk/hashmap"
	"github.com/named-data/ccnfwd/ccn"
)

// RttAlpha is the weight of a new sample in the RTT moving average.
const RttAlpha = 0.125

// Measurements contains the global measurements table. It may be read from outside the forwarding thread.
var measurements = &hashmap.HashMap{}

func rttKey(prefix ccn.Name, nexthop uint64) string {
	return "rtt" + prefix.String() + "@" + strconv.FormatUint(nexthop, 10)
}

// GetMeasurement returns the measurement table value at the specified key or nil if it does not exist.
func GetMeasurement(key string) interface{} {
	value, isOk := measurements.GetStringKey(key)
	if !isOk {
		return nil
	}
	return value
}

// SetMeasurement atomically sets the value of the specified measurement table key only if it is equal to the expected value, returning whether the operation was successful.
func SetMeasurement(key string, expected interface{}, value interface{}) bool {
	return measurements.Cas(key, expected, value)
}

// DeleteMeasurement removes the specified key.
func DeleteMeasurement(key string) {
	measurements.Del(key)
}

// AddToMeasurementInt adds the specified value to the given measurement key, setting as value if unitialized.
func AddToMeasurementInt(key string, value int) {
	wasSet := false
	for !wasSet {
		expected := GetMeasurement(key)
		if expected != nil {
			wasSet = SetMeasurement(key, expected, expected.(int)+value)
		} else {
			_, wasSet = measurements.GetOrInsert(key, value)
			// We need to flip this because it returns false if set
			wasSet = !wasSet
		}
	}
}

// AddSampleToEWMA adds a sample to an exponentially weighted moving average
func AddSampleToEWMA(key string, measurement float64, alpha float64) {
	wasSet := false
	for !wasSet {
		expected := GetMeasurement(key)
		if expected != nil {
			newValue := expected.(float64) + alpha*(measurement-expected.(float64))
			wasSet = SetMeasurement(key, expected, newValue)
		} else {
			_, wasSet = measurements.GetOrInsert(key, measurement)
			// We need to flip this because it returns false if set
			wasSet = !wasSet
		}
	}
}

// AddRttSample records the round trip time of a Content Object received from nexthop for a FIB prefix.
func AddRttSample(prefix ccn.Name, nexthop uint64, rtt time.Duration) {
	AddSampleToEWMA(rttKey(prefix, nexthop), float64(rtt), RttAlpha)
	AddToMeasurementInt("samples"+prefix.String()+"@"+strconv.FormatUint(nexthop, 10), 1)
}

// SmoothedRtt returns the moving average of the round trip times recorded for prefix and nexthop.
func SmoothedRtt(prefix ccn.Name, nexthop uint64) (time.Duration, bool) {
	v := GetMeasurement(rttKey(prefix, nexthop))
	if v == nil {
		return 0, false
	}
	return time.Duration(v.(float64)), true
}

// RttSampleCount returns how many samples were recorded for prefix and nexthop.
func RttSampleCount(prefix ccn.Name, nexthop uint64) int {
	v := GetMeasurement("samples" + prefix.String() + "@" + strconv.FormatUint(nexthop, 10))
	if v == nil {
		return 0
	}
	return v.(int)
}

// ClearRtt forgets the measurements of prefix and nexthop.
func ClearRtt(prefix ccn.Name, nexthop uint64) {
	DeleteMeasurement(rttKey(prefix, nexthop))
	DeleteMeasurement("samples" + prefix.String() + "@" + strconv.FormatUint(nexthop, 10))
}
