package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-reorder/components/ordering"
	"github.com/goliatone/go-reorder/pkg/restclient"
	"github.com/goliatone/go-reorder/pkg/session"
)

type cli struct {
	Server   string `default:"http://localhost:9876/api" env:"ORDERING_URL" help:"Base URL of the ordering API."`
	Token    string `env:"ORDERING_TOKEN" help:"Bearer token sent with every request."`
	Manifest string `type:"path" env:"ORDERING_MANIFEST" help:"Collection manifest used to resolve partition keys."`

	List       listCmd       `cmd:"" help:"List the items of a collection."`
	Move       moveCmd       `cmd:"" help:"Move an item from one position to another, like a drag and drop."`
	Create     createCmd     `cmd:"" help:"Create an item."`
	Delete     deleteCmd     `cmd:"" help:"Delete an item."`
	Collection collectionCmd `cmd:"" help:"Add or replace a collection definition in a manifest file."`
}

// env carries the resolved globals into subcommands.
type env struct {
	client   *restclient.Client
	session  *session.Session
	registry *ordering.Registry
	out      io.Writer
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	var root cli
	kctx := kong.Parse(&root,
		kong.Name("reorderctl"),
		kong.Description("Command line client for ordered collections."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run(&root)
	kctx.FatalIfErrorf(err)
}

func (c *cli) env() (*env, error) {
	registry := ordering.NewRegistry()
	if err := ordering.RegisterManifest(registry, c.Manifest); err != nil {
		return nil, err
	}
	sess := session.New()
	var tokens restclient.TokenSource
	if c.Token != "" {
		if err := sess.Login(c.Token, session.User{ID: "cli"}); err != nil {
			return nil, err
		}
		tokens = sess
	}
	client, err := restclient.New(restclient.Config{
		BaseURL:       c.Server,
		Tokens:        tokens,
		PartitionKeys: restclient.PartitionKeys(registry.Definitions()),
	})
	if err != nil {
		return nil, err
	}
	return &env{client: client, session: sess, registry: registry, out: os.Stdout}, nil
}

func writeYAML(w io.Writer, value any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("reorderctl: write output: %w", err)
	}
	return nil
}
