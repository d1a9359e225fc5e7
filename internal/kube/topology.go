package kube

import (
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/guimove/eas-sim/internal/topology"
)

// perfDomainLabel, when present on a Node, names its performance-domain
// class directly ("little", "middle", "big"), overriding the
// instance-type heuristic below.
const perfDomainLabel = "eas-sim/perf-domain"

// instanceTypeLabel is the well-known label EKS/most managed Kubernetes
// distributions set to the cloud instance type backing a Node.
const instanceTypeLabel = "node.kubernetes.io/instance-type"

// DiscoverTopology lists the cluster's Nodes and buckets their allocatable
// CPU into performance-domain classes, producing a topology.Descriptor a
// `compare` experiment can run the EAS simulator against. Nodes are
// classified by perfDomainLabel when set, else by a guess derived from
// the first letter of their instance type family.
func DiscoverTopology(ctx context.Context, client kubernetes.Interface) (topology.Descriptor, error) {
	nodes, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return topology.Descriptor{}, fmt.Errorf("listing nodes: %w", err)
	}
	if len(nodes.Items) == 0 {
		return topology.Descriptor{}, fmt.Errorf("no nodes found in cluster")
	}

	d := topology.Descriptor{Counts: make(map[topology.Class]int, 3), Name: "cluster"}
	for _, n := range nodes.Items {
		class := classifyNode(n)
		d.Counts[class] += allocatableCPUs(n)
	}
	return d, nil
}

func classifyNode(n corev1.Node) topology.Class {
	if v, ok := n.Labels[perfDomainLabel]; ok {
		switch topology.Class(v) {
		case topology.Little, topology.Middle, topology.Big:
			return topology.Class(v)
		}
	}
	return classifyInstanceType(n.Labels[instanceTypeLabel])
}

// classifyInstanceType guesses a performance class from the first letter
// of an EC2-style instance type family: burstable 't'-family types map to
// little, memory/compute-heavy 'r'/'z'/'x' to big, and every other family
// (general-purpose 'm'/'c' included) to middle. The generation suffix,
// Graviton 'g' included, is not looked at.
func classifyInstanceType(instanceType string) topology.Class {
	family := strings.SplitN(instanceType, ".", 2)[0]
	if family == "" {
		return topology.Middle
	}
	switch family[0] {
	case 't':
		return topology.Little
	case 'r', 'z', 'x':
		return topology.Big
	default:
		return topology.Middle
	}
}

// allocatableCPUs returns the node's allocatable CPU count, rounded down
// to whole cores.
func allocatableCPUs(n corev1.Node) int {
	q, ok := n.Status.Allocatable[corev1.ResourceCPU]
	if !ok {
		return 0
	}
	millis := q.MilliValue()
	cores := millis / 1000
	if cores <= 0 && millis > 0 {
		cores = 1
	}
	return int(cores)
}
