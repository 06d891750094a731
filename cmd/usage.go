package cmd

const runLong = `Simulates N independent populations of altruists and non-altruists.

On every tick each population larger than the fission size keeps each of its
individuals with probability 0.5 and loses the rest. Then one event is drawn
with probability proportional to its rate:

  in-migration   phi          (an altruist with probability q)
  birth          b * n        (the newborn copies a random parent's type)
  loss           (d + m) * n  (death or out-migration of a random individual)

Rate policies (-S):
  0, constant     static birth and death rates (default)
  1, freq-death   frequency-dependent death rate: d = b * n / K
  2, freq-birth   frequency-dependent birth rate: b = 1 - (1 - d) * n / K

Recomputed rates are not clamped; a negative rate never selects its event.

Parameters are taken from the built-in defaults, then from --config, then from
flags given on the command line. The final table (n,a,p) is written as CSV.`

const runExample = `  ghostsim run -S 1 -d 1 -m 0.05 -q 0.2 -N 100 -T 1000000
  ghostsim run --config params.yaml --seed 7 --summary --output results.csv`
