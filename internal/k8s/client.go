package k8s

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"
)

// defaultPollInterval is how often WaitReachable retries the API server.
const defaultPollInterval = 2 * time.Second

// Client wraps the read-only cluster queries used by diagnostics.
type Client struct {
	Clientset kubernetes.Interface
}

// NewClient creates a client for the current context of material.
func NewClient(material string) (*Client, error) {
	cfg, err := RESTConfig(material)
	if err != nil {
		return nil, err
	}
	cfg.Timeout = 10 * time.Second

	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}
	return &Client{Clientset: clientset}, nil
}

// ServerVersion returns the git version reported by the API server.
func (c *Client) ServerVersion() (string, error) {
	info, err := c.Clientset.Discovery().ServerVersion()
	if err != nil {
		return "", fmt.Errorf("failed to get server version: %w", err)
	}
	return info.GitVersion, nil
}

// NodeSummary counts cluster nodes.
type NodeSummary struct {
	Total int
	Ready int
}

// Nodes lists the cluster nodes and counts those reporting Ready.
func (c *Client) Nodes(ctx context.Context) (NodeSummary, error) {
	nodes, err := c.Clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return NodeSummary{}, fmt.Errorf("failed to list nodes: %w", err)
	}

	summary := NodeSummary{Total: len(nodes.Items)}
	for i := range nodes.Items {
		if isNodeReady(&nodes.Items[i]) {
			summary.Ready++
		}
	}
	return summary, nil
}

// WaitReachable polls the API server until it answers or timeout expires.
func (c *Client) WaitReachable(ctx context.Context, timeout time.Duration) error {
	var lastErr error
	err := wait.PollUntilContextTimeout(ctx, defaultPollInterval, timeout, true, func(context.Context) (bool, error) {
		if _, lastErr = c.ServerVersion(); lastErr != nil {
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		if lastErr != nil {
			return fmt.Errorf("api server not reachable: %w", lastErr)
		}
		return fmt.Errorf("api server not reachable: %w", err)
	}
	return nil
}

func isNodeReady(node *corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}
