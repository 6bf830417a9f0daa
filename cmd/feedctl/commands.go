package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tendant/simple-feed/pkg/simplefeed"
	"github.com/tendant/simple-feed/pkg/simplefeed/api"
)

// NewUserCommand creates the user command group
func NewUserCommand(newService ServiceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users and follow relationships",
	}

	cmd.AddCommand(newUserCreateCommand(newService))
	cmd.AddCommand(newUserGetCommand(newService))
	cmd.AddCommand(newFollowCommand(newService, "follow", "Follow a user"))
	cmd.AddCommand(newFollowCommand(newService, "unfollow", "Stop following a user"))

	return cmd
}

func newUserCreateCommand(newService ServiceFactory) *cobra.Command {
	var name, image string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			user, err := svc.CreateUser(cmd.Context(), simplefeed.CreateUserRequest{
				Name:            name,
				ProfileImageURL: image,
			})
			if err != nil {
				return fmt.Errorf("create user failed: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), api.NewUserResponse(user))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&image, "image", "", "profile image URL")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUserGetCommand(newService ServiceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "get <user-id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user-id", args[0])
			if err != nil {
				return err
			}
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			user, err := svc.GetUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), api.NewUserResponse(user))
		},
	}
}

func newFollowCommand(newService ServiceFactory, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <user-id> <target-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID("user-id", args[0])
			if err != nil {
				return err
			}
			targetID, err := parseID("target-id", args[1])
			if err != nil {
				return err
			}
			svc, err := newService(cmd)
			if err != nil {
				return err
			}

			req := simplefeed.FollowRequest{UserID: userID, TargetID: targetID}
			if use == "follow" {
				err = svc.FollowUser(cmd.Context(), req)
			} else {
				err = svc.UnfollowUser(cmd.Context(), req)
			}
			if err != nil {
				return fmt.Errorf("%s failed: %w", use, err)
			}

			target, err := svc.GetUser(cmd.Context(), targetID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), api.NewUserResponse(target))
		},
	}
}

// NewPostCommand creates the post command group
func NewPostCommand(newService ServiceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Manage posts and likes",
	}

	cmd.AddCommand(newPostCreateCommand(newService))
	cmd.AddCommand(newPostGetCommand(newService))
	cmd.AddCommand(newPostUpdateCommand(newService))
	cmd.AddCommand(newLikeCommand(newService, "like", "Like a post"))
	cmd.AddCommand(newLikeCommand(newService, "unlike", "Remove a like from a post"))

	return cmd
}

func newPostCreateCommand(newService ServiceFactory) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "create <author-id>",
		Short: "Create a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			authorID, err := parseID("author-id", args[0])
			if err != nil {
				return err
			}
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			post, err := svc.CreatePost(cmd.Context(), simplefeed.CreatePostRequest{
				AuthorID: authorID,
				Text:     text,
			})
			if err != nil {
				return fmt.Errorf("create post failed: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), api.NewPostResponse(post))
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "post text (required)")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func newPostGetCommand(newService ServiceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "get <post-id>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("post-id", args[0])
			if err != nil {
				return err
			}
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			post, err := svc.GetPost(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), api.NewPostResponse(post))
		},
	}
}

func newPostUpdateCommand(newService ServiceFactory) *cobra.Command {
	var text, state string

	cmd := &cobra.Command{
		Use:   "update <post-id> <user-id>",
		Short: "Edit a post's text and/or state (author only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parseID("post-id", args[0])
			if err != nil {
				return err
			}
			userID, err := parseID("user-id", args[1])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("text") && !cmd.Flags().Changed("state") {
				return fmt.Errorf("at least one of --text or --state is required")
			}
			svc, err := newService(cmd)
			if err != nil {
				return err
			}

			req := simplefeed.UpdatePostRequest{PostID: postID, UserID: userID}
			if cmd.Flags().Changed("text") {
				req.Text = &text
			}
			if cmd.Flags().Changed("state") {
				parsed, err := simplefeed.ParsePostState(state)
				if err != nil {
					return err
				}
				req.State = &parsed
			}

			post, err := svc.UpdatePost(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("update post failed: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), api.NewPostResponse(post))
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "new post text")
	cmd.Flags().StringVar(&state, "state", "", "new state: public, only_follower or private")

	return cmd
}

func newLikeCommand(newService ServiceFactory, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <post-id> <user-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parseID("post-id", args[0])
			if err != nil {
				return err
			}
			userID, err := parseID("user-id", args[1])
			if err != nil {
				return err
			}
			svc, err := newService(cmd)
			if err != nil {
				return err
			}

			req := simplefeed.LikeRequest{PostID: postID, UserID: userID}
			var post *simplefeed.Post
			if use == "like" {
				post, err = svc.LikePost(cmd.Context(), req)
			} else {
				post, err = svc.UnlikePost(cmd.Context(), req)
			}
			if err != nil {
				return fmt.Errorf("%s failed: %w", use, err)
			}
			return printJSON(cmd.OutOrStdout(), api.NewPostResponse(post))
		},
	}
}

func parseID(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return id, nil
}
