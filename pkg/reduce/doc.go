// Package reduce collapses nets joined through relaying passives into
// connectivity classes.
//
// Starting from a signal net, the reducer walks every connection. A pin of
// a part with no pass-through rule is a terminal. A pin that relays to a
// supply or ground rail is a pull. A pin that relays to another signal net
// merges that net into the class and queues its connections. The result is
// the set of member nets, the terminals that carry the signal and the
// pulls that bias it.
package reduce
