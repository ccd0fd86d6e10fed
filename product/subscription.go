package product

import (
	"context"
	"fmt"
	"strconv"

	"github.com/opensarlab/asftool/interface/hyp3"
	"github.com/opensarlab/asftool/service"
	"github.com/opensarlab/asftool/service/log"
)

// PickSubscription lists the subscriptions and prompts until the user picks
// an id present in the list. There is no retry limit; a prompter error (e.g.
// an exhausted script) ends the loop.
func PickSubscription(ctx context.Context, prompter service.Prompter, subscriptions []hyp3.Subscription) (int, error) {
	if len(subscriptions) == 0 {
		return 0, hyp3.ErrNoSubscriptions
	}

	ids := make(map[int]struct{}, len(subscriptions))
	for _, sub := range subscriptions {
		log.Logger(ctx).Sugar().Infof("subscription id: %d %s", sub.ID, sub.Name)
		ids[sub.ID] = struct{}{}
	}

	for {
		answer, err := prompter.Input("Pick a subscription ID from the above list: ")
		if err != nil {
			return 0, fmt.Errorf("PickSubscription: %w", err)
		}
		id, err := strconv.Atoi(answer)
		if err != nil {
			log.Logger(ctx).Sugar().Warnf("invalid ID: %s", answer)
			continue
		}
		if _, ok := ids[id]; !ok {
			log.Logger(ctx).Sugar().Warnf("invalid ID: %d", id)
			continue
		}
		return id, nil
	}
}
