package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"github.com/vango-dev/woby/internal/config"
	"github.com/vango-dev/woby/internal/errors"
	"github.com/vango-dev/woby/pkg/loop"
	"github.com/vango-dev/woby/pkg/reconcile"
)

func snapshotCmd(load configLoader) *cobra.Command {
	var (
		names   []string
		steps   int
		dir     string
		bucket  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render scenario steps to HTML snapshots",
		Long: `Render each step of the demo scenarios and store the markup.

Snapshots go to the configured directory, or to S3 when a bucket is
configured. Keys look like <prefix><scenario>/<step>.html.

Examples:
  woby snapshot
  woby snapshot --scenario list --steps 20
  woby snapshot --bucket my-bucket`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.Snapshot.Dir = dir
			}
			if bucket != "" {
				cfg.Snapshot.Bucket = bucket
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			store, err := newSnapshotStore(cfg)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				names = scenarioNames()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			out := cmd.OutOrStdout()
			for _, name := range names {
				sc, err := lookupScenario(name)
				if err != nil {
					return err
				}
				n, err := writeSnapshots(ctx, sc, steps, store, cfg.Snapshot.Prefix, cfg.HotReload)
				if err != nil {
					return err
				}
				success(out, "%s: %d snapshots → %s", name, n, store.location(cfg.Snapshot.Prefix+name+"/"))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&names, "scenario", "s", nil, "Scenarios to render (default: all)")
	cmd.Flags().IntVarP(&steps, "steps", "n", 10, "Number of steps after the initial render")
	cmd.Flags().StringVarP(&dir, "dir", "o", "", "Output directory (default from woby.json)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket (default from woby.json)")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Give up after this long")

	return cmd
}

// writeSnapshots renders sc and stores its markup after the initial render
// and after every step. It returns the number of snapshots written.
func writeSnapshots(ctx context.Context, sc scenario, steps int, store snapshotStore, prefix string, hotReload bool) (int, error) {
	l := loop.New(nil)
	defer l.Close()

	s, err := startSession(ctx, sc, l, sessionOptions{
		reconciler: &reconcile.Reconciler{HotReload: hotReload},
	})
	if err != nil {
		return 0, err
	}
	defer s.close()

	written := 0
	for i := 0; i <= steps; i++ {
		if i > 0 {
			s.advance()
		}
		if err := settle(ctx, l, s.inst.idle); err != nil {
			return written, errors.FromError(err, "W301").
				WithDetailf("scenario %s did not settle at step %d", sc.name, i)
		}
		key := fmt.Sprintf("%s%s/%03d.html", prefix, sc.name, i)
		if err := store.put(ctx, key, []byte(s.html())); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// snapshotStore is where snapshots end up.
type snapshotStore interface {
	put(ctx context.Context, key string, body []byte) error
	location(key string) string
}

func newSnapshotStore(cfg *config.Config) (snapshotStore, error) {
	if !cfg.UsesS3() {
		return dirStore{dir: cfg.SnapshotPath()}, nil
	}
	return newS3Store(cfg), nil
}

// dirStore writes snapshots below a directory.
type dirStore struct {
	dir string
}

func (d dirStore) put(_ context.Context, key string, body []byte) error {
	p := filepath.Join(d.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return errors.FromError(err, "W301").WithDetailf("cannot create %s", filepath.Dir(p))
	}
	if err := os.WriteFile(p, body, 0644); err != nil {
		return errors.FromError(err, "W301").WithDetailf("cannot write %s", p)
	}
	return nil
}

func (d dirStore) location(key string) string {
	return filepath.Join(d.dir, filepath.FromSlash(key))
}

// s3Store uploads snapshots to a bucket.
type s3Store struct {
	client *s3.Client
	bucket string
}

func newS3Store(cfg *config.Config) *s3Store {
	awsCfg := aws.Config{
		Region:      cfg.Snapshot.Region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Snapshot.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Snapshot.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &s3Store{client: client, bucket: cfg.Snapshot.Bucket}
}

func (s *s3Store) put(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/html; charset=utf-8"),
		Metadata: map[string]string{
			"render-time":  time.Now().UTC().Format(time.RFC3339),
			"woby-version": version,
		},
	})
	if err != nil {
		return errors.FromError(err, "W301").WithDetailf("s3://%s/%s", s.bucket, key)
	}
	return nil
}

func (s *s3Store) location(key string) string {
	return "s3://" + path.Join(s.bucket, key)
}

// envCredentials reads static credentials from the standard AWS variables.
func envCredentials(context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, errors.New("W301").
			WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set to upload snapshots")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "woby-env",
	}, nil
}
