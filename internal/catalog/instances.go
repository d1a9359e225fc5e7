package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/guimove/eas-sim/internal/topology"
)

// Instance is one EC2 instance type's shape, as used to derive a
// topology.Descriptor for simulation.
type Instance struct {
	InstanceType      string
	Family            string
	Generation        int
	Size              string
	VCPUs             int32
	SustainedClockGHz float64
	CurrentGeneration bool

	OnDemandPricePerHour float64
	SpotPricePerHour     float64
}

// Topology buckets the instance's vCPUs into a single performance-domain
// class by sustained clock speed (spec.md §6's little/middle/big ranges),
// since a real EC2 instance type's cores run at one uniform clock.
func (i Instance) Topology() topology.Descriptor {
	class := classify(i.SustainedClockGHz)
	return topology.Descriptor{
		Name:   i.InstanceType,
		Counts: map[topology.Class]int{class: int(i.VCPUs)},
	}
}

func classify(ghz float64) topology.Class {
	switch {
	case ghz <= 2.0:
		return topology.Little
	case ghz <= 3.0:
		return topology.Middle
	default:
		return topology.Big
	}
}

// ListInstances retrieves EC2 instance types matching filter.
func (p *AWSProvider) ListInstances(ctx context.Context, filter InstanceFilter) ([]Instance, error) {
	var filters []ec2types.Filter

	if filter.CurrentGenerationOnly {
		filters = append(filters, ec2types.Filter{
			Name:   aws.String("current-generation"),
			Values: []string{"true"},
		})
	}
	if filter.ExcludeBareMetal {
		filters = append(filters, ec2types.Filter{
			Name:   aws.String("bare-metal"),
			Values: []string{"false"},
		})
	}
	if filter.ExcludeBurstable {
		filters = append(filters, ec2types.Filter{
			Name:   aws.String("burstable-performance-supported"),
			Values: []string{"false"},
		})
	}

	var allTypes []ec2types.InstanceTypeInfo
	var nextToken *string
	for {
		input := &ec2.DescribeInstanceTypesInput{
			Filters:    filters,
			NextToken:  nextToken,
			MaxResults: aws.Int32(100),
		}
		output, err := p.ec2Client.DescribeInstanceTypes(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("describing instance types: %w", err)
		}
		allTypes = append(allTypes, output.InstanceTypes...)
		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	var instances []Instance
	familySet := toSet(filter.Families)
	for _, it := range allTypes {
		inst := convertInstanceType(it)

		if len(familySet) > 0 && !familySet[inst.Family] {
			continue
		}
		if filter.MinVCPUs > 0 && inst.VCPUs < filter.MinVCPUs {
			continue
		}
		if filter.MaxVCPUs > 0 && inst.VCPUs > filter.MaxVCPUs {
			continue
		}

		instances = append(instances, inst)
	}

	if len(instances) == 0 {
		return nil, ErrNoInstanceTypes
	}
	return instances, nil
}

func convertInstanceType(it ec2types.InstanceTypeInfo) Instance {
	inst := Instance{InstanceType: string(it.InstanceType)}
	inst.Family, inst.Generation, inst.Size = parseInstanceType(string(it.InstanceType))

	if it.VCpuInfo != nil && it.VCpuInfo.DefaultVCpus != nil {
		inst.VCPUs = *it.VCpuInfo.DefaultVCpus
	}
	if it.ProcessorInfo != nil && it.ProcessorInfo.SustainedClockSpeedInGhz != nil {
		inst.SustainedClockGHz = *it.ProcessorInfo.SustainedClockSpeedInGhz
	}
	if it.CurrentGeneration != nil {
		inst.CurrentGeneration = *it.CurrentGeneration
	}

	return inst
}

// parseInstanceType extracts family, generation, and size from an instance
// type name, e.g. "m7g.xlarge" -> ("m7g", 7, "xlarge").
var instanceTypeRegex = regexp.MustCompile(`^([a-z]+)(\d+)([a-z]*)\.(.+)$`)

func parseInstanceType(instanceType string) (family string, generation int, size string) {
	parts := strings.SplitN(instanceType, ".", 2)
	if len(parts) != 2 {
		return instanceType, 0, ""
	}
	family = parts[0]
	size = parts[1]

	if matches := instanceTypeRegex.FindStringSubmatch(instanceType); len(matches) >= 5 {
		gen, _ := strconv.Atoi(matches[2])
		generation = gen
	}
	return family, generation, size
}

func toSet(items []string) map[string]bool {
	s := make(map[string]bool, len(items))
	for _, item := range items {
		s[item] = true
	}
	return s
}
